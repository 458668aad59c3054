package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/geodesy"
)

var (
	// ErrBadStatus is returned when the flight side answers with a non-2xx code.
	ErrBadStatus = errors.New("unexpected status from flight endpoint")
	// ErrMalformed is returned for telemetry bodies that are not a complete,
	// in-range pose.
	ErrMalformed = errors.New("malformed telemetry")
)

// Snapshot is the platform pose reported by GET /telemetry.
type Snapshot struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Heading float64 `json:"heading"`
}

// snapshotWire tells a missing key apart from a zero value.
type snapshotWire struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Heading *float64 `json:"heading"`
}

func decodeSnapshot(body []byte) (Snapshot, error) {
	var w snapshotWire
	if err := json.Unmarshal(body, &w); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if w.Lat == nil || w.Lon == nil || w.Heading == nil {
		return Snapshot{}, fmt.Errorf("%w: lat, lon and heading are required", ErrMalformed)
	}
	s := Snapshot{Lat: *w.Lat, Lon: *w.Lon, Heading: *w.Heading}
	if !s.Position().Valid() {
		return Snapshot{}, fmt.Errorf("%w: position %s out of range", ErrMalformed, s.Position())
	}
	if math.IsNaN(s.Heading) || math.IsInf(s.Heading, 0) {
		return Snapshot{}, fmt.Errorf("%w: heading %g", ErrMalformed, s.Heading)
	}
	return s, nil
}

// Position returns the snapshot's ground position.
func (s Snapshot) Position() geodesy.Point {
	return geodesy.Point{Lat: s.Lat, Lon: s.Lon}
}

// Client talks to the flight-side HTTP contract. Every call is bounded by the
// configured timeout regardless of the caller's context.
type Client struct {
	baseURL    string
	triggerURL string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a client from config.
func NewClient(cfg *config.Config) *Client {
	return NewClientWith(cfg.TelemetryURL, cfg.TriggerURL, cfg.NetworkTimeout)
}

// NewClientWith builds a client for explicit endpoints.
func NewClientWith(baseURL, triggerURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		triggerURL: triggerURL,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the current telemetry snapshot.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	body, err := c.get(ctx, c.baseURL+"/telemetry")
	if err != nil {
		return Snapshot{}, err
	}
	return decodeSnapshot(body)
}

// ReportTarget sends a computed location as GET /set_target/<lat>,<lon>.
func (c *Client) ReportTarget(ctx context.Context, p geodesy.Point) error {
	_, err := c.get(ctx, c.baseURL+"/set_target/"+p.String())
	return err
}

// Trigger fires the parameterless trigger endpoint.
func (c *Client) Trigger(ctx context.Context) error {
	_, err := c.get(ctx, c.triggerURL)
	return err
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: %d %s", ErrBadStatus, url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	log.Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Flight endpoint call")
	return body, nil
}
