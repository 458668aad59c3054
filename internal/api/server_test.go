package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/geodesy"
	"proxwatch-go/internal/services/telemetry"
)

var home = geodesy.Point{Lat: 43.4723, Lon: -80.5449}

func newTestServer(t *testing.T, onArrival func()) (*Server, *FlightState) {
	t.Helper()
	cfg := &config.Config{WorkerID: "gs-test", Version: "test", GroundstationPort: 5000, SwaggerHost: "localhost"}
	state := NewFlightState(home, 45, 5)
	srv := NewServer(cfg, state, onArrival)
	require.NoError(t, srv.Setup())
	return srv, state
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetTelemetry_StartsAtHome(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	for _, path := range []string{"/telemetry", "/location"} {
		rec := do(t, srv.Handler(), http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[map[string]float64](t, rec)
		assert.Equal(t, map[string]float64{"lat": home.Lat, "lon": home.Lon, "heading": 45}, got, path)
	}
}

func TestSetTarget(t *testing.T) {
	srv, state := newTestServer(t, nil)

	rec := do(t, srv.Handler(), http.MethodGet, "/set_target/not-coords", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, state.Snapshot().Target)

	rec = do(t, srv.Handler(), http.MethodGet, "/set_target/43.500000,-80.500000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	snap := state.Snapshot()
	require.NotNil(t, snap.Target)
	assert.Equal(t, geodesy.Point{Lat: 43.5, Lon: -80.5}, *snap.Target)
	assert.Equal(t, ModeToTarget, snap.Mode)
}

func TestSetHome(t *testing.T) {
	srv, state := newTestServer(t, nil)
	rec := do(t, srv.Handler(), http.MethodGet, "/set_home/10,20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, geodesy.Point{Lat: 10, Lon: 20}, state.Snapshot().Home)

	rec = do(t, srv.Handler(), http.MethodGet, "/set_home/100,20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostTelemetry_ArrivalTriggersAndReturnsHome(t *testing.T) {
	srv, state := newTestServer(t, nil)
	target := geodesy.Destination(home, 0, 100)
	state.SetTarget(target)

	far := geodesy.Destination(home, 0, 50)
	rec := do(t, srv.Handler(), http.MethodPost, "/telemetry", `{"lat":`+ftoa(far.Lat)+`,"lon":`+ftoa(far.Lon)+`,"heading":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[map[string]bool](t, rec)["arrived"])

	near := geodesy.Destination(home, 0, 98)
	rec = do(t, srv.Handler(), http.MethodPost, "/telemetry", `{"lat":`+ftoa(near.Lat)+`,"lon":`+ftoa(near.Lon)+`,"heading":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[map[string]bool](t, rec)["arrived"])

	snap := state.Snapshot()
	assert.Nil(t, snap.Target)
	assert.Equal(t, ModeReturning, snap.Mode)
	assert.Equal(t, 1, snap.Triggers)
	assert.Equal(t, 1, snap.Arrivals)
	require.NotNil(t, state.Destination())
	assert.Equal(t, home, *state.Destination())

	// Staying put does not fire twice.
	rec = do(t, srv.Handler(), http.MethodPost, "/telemetry", `{"lat":`+ftoa(near.Lat)+`,"lon":`+ftoa(near.Lon)+`,"heading":180}`)
	assert.False(t, decode[map[string]bool](t, rec)["arrived"])

	rec = do(t, srv.Handler(), http.MethodPost, "/telemetry", `{"lat":`+ftoa(home.Lat)+`,"lon":`+ftoa(home.Lon)+`,"heading":180}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ModeIdle, state.Snapshot().Mode)
	assert.Nil(t, state.Destination())
	assert.Equal(t, 1, state.Snapshot().Triggers)
}

func TestPostTelemetry_CustomArrival(t *testing.T) {
	var calls int
	srv, state := newTestServer(t, func() { calls++ })
	state.SetTarget(home)

	rec := do(t, srv.Handler(), http.MethodPost, "/telemetry", `{"lat":`+ftoa(home.Lat)+`,"lon":`+ftoa(home.Lon)+`,"heading":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, state.Snapshot().Triggers)
}

func TestPostTelemetry_BadBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(t, srv.Handler(), http.MethodPost, "/telemetry", `{"lat":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv.Handler(), http.MethodPost, "/telemetry", `{"lat":95,"lon":0,"heading":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlay_Counts(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	do(t, srv.Handler(), http.MethodGet, "/play", "")
	rec := do(t, srv.Handler(), http.MethodGet, "/play", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"triggered","triggers":2}`, rec.Body.String())

	rec = do(t, srv.Handler(), http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[StateSnapshot](t, rec).Triggers)
}

func TestSystemStats_ReportsSession(t *testing.T) {
	srv, state := newTestServer(t, nil)
	state.SetTarget(geodesy.Point{Lat: 43.5, Lon: -80.5})
	state.RecordTrigger()

	rec := do(t, srv.Handler(), http.MethodGet, "/system/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Session struct {
			Mode     string `json:"mode"`
			Triggers int    `json:"triggers"`
			Arrivals int    `json:"arrivals"`
		} `json:"session"`
	}](t, rec)
	assert.Equal(t, string(ModeToTarget), body.Session.Mode)
	assert.Equal(t, 1, body.Session.Triggers)
	assert.Equal(t, 0, body.Session.Arrivals)
}

func TestDocs_Served(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(t, srv.Handler(), http.MethodGet, "/docs/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/set_target/{coords}")
	assert.Contains(t, rec.Body.String(), "localhost:5000")
}

func TestCORS_Preflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := do(t, srv.Handler(), http.MethodOptions, "/telemetry", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestTelemetryClient_AgainstGroundstation(t *testing.T) {
	srv, state := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := telemetry.NewClientWith(ts.URL, ts.URL+"/play", time.Second)
	ctx := context.Background()

	snap, err := c.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, telemetry.Snapshot{Lat: home.Lat, Lon: home.Lon, Heading: 45}, snap)

	target := geodesy.Point{Lat: 43.473, Lon: -80.544}
	require.NoError(t, c.ReportTarget(ctx, target))
	require.NotNil(t, state.Snapshot().Target)
	assert.Equal(t, target, *state.Snapshot().Target)

	require.NoError(t, c.Trigger(ctx))
	assert.Equal(t, 1, state.Snapshot().Triggers)
}

func TestFlightState_ArrivalRadiusIsExclusive(t *testing.T) {
	target := geodesy.Destination(home, 90, 40)
	fix := geodesy.Destination(home, 90, 36)
	d := geodesy.Distance(fix, target)

	onEdge := NewFlightState(home, 0, d)
	onEdge.SetTarget(target)
	assert.False(t, onEdge.UpdatePosition(fix, 90), "a fix exactly on the radius has not arrived")
	assert.Equal(t, ModeToTarget, onEdge.Snapshot().Mode)

	inside := NewFlightState(home, 0, math.Nextafter(d, math.Inf(1)))
	inside.SetTarget(target)
	assert.True(t, inside.UpdatePosition(fix, 90))
	assert.Equal(t, ModeReturning, inside.Snapshot().Mode)
}

func TestFlightState_ConcurrentAccess(t *testing.T) {
	state := NewFlightState(home, 0, 5)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				state.UpdatePosition(geodesy.Destination(home, float64(i*45), float64(j)), float64(j))
				state.RecordTrigger()
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = state.Snapshot()
				_, _ = state.Telemetry()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, state.Snapshot().Triggers)
}

func ftoa(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
