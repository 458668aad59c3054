package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"proxwatch-go/internal/geodesy"
	"proxwatch-go/internal/logging"
)

// FlightState is the session the flight handlers read and mutate.
type FlightState interface {
	Telemetry() (geodesy.Point, float64)
	SetTarget(p geodesy.Point)
	SetHome(p geodesy.Point)
	UpdatePosition(p geodesy.Point, heading float64) bool
	RecordTrigger() int
}

// FlightHandler serves the telemetry contract the frame pipeline talks to.
type FlightHandler struct {
	state     FlightState
	onArrival func()
}

// NewFlightHandler builds the handler. onArrival runs when a position update
// reaches the active target; nil counts a trigger.
func NewFlightHandler(state FlightState, onArrival func()) *FlightHandler {
	h := &FlightHandler{state: state, onArrival: onArrival}
	if h.onArrival == nil {
		h.onArrival = func() { state.RecordTrigger() }
	}
	return h
}

type TelemetryResponse struct {
	Lat     float64 `json:"lat" example:"43.4723"`
	Lon     float64 `json:"lon" example:"-80.5449"`
	Heading float64 `json:"heading" example:"90"`
}

type TriggerResponse struct {
	Status   string `json:"status" example:"triggered"`
	Triggers int    `json:"triggers" example:"1"`
}

type PositionUpdateResponse struct {
	Arrived bool `json:"arrived"`
}

// @Summary Current telemetry
// @Description Live platform position and heading
// @Tags flight
// @Produce json
// @Success 200 {object} TelemetryResponse
// @Router /telemetry [get]
func (h *FlightHandler) GetTelemetry(c *gin.Context) {
	p, heading := h.state.Telemetry()
	c.JSON(http.StatusOK, TelemetryResponse{Lat: p.Lat, Lon: p.Lon, Heading: heading})
}

// @Summary Update telemetry
// @Description Record a new fix. Reaching the active target fires the trigger and heads home.
// @Tags flight
// @Accept json
// @Produce json
// @Param fix body TelemetryResponse true "New fix"
// @Success 200 {object} PositionUpdateResponse
// @Failure 400 {object} map[string]string
// @Router /telemetry [post]
func (h *FlightHandler) PostTelemetry(c *gin.Context) {
	var req TelemetryResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := geodesy.Point{Lat: req.Lat, Lon: req.Lon}
	if !p.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": geodesy.ErrBadCoords.Error()})
		return
	}

	arrived := h.state.UpdatePosition(p, req.Heading)
	if arrived {
		logging.Info(c).Str("position", p.String()).Msg("🎯 Arrived at target, returning home")
		h.onArrival()
	}
	c.JSON(http.StatusOK, PositionUpdateResponse{Arrived: arrived})
}

// @Summary Set target
// @Description Fly to a reported violation location
// @Tags flight
// @Produce plain
// @Param coords path string true "lat,lon"
// @Success 200 {string} string "OK"
// @Failure 400 {object} map[string]string
// @Router /set_target/{coords} [get]
func (h *FlightHandler) SetTarget(c *gin.Context) {
	p, err := geodesy.ParsePoint(c.Param("coords"))
	if err != nil {
		logging.Warn(c).Err(err).Msg("Rejected target")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.state.SetTarget(p)
	logging.Info(c).Str("target", p.String()).Msg("Target set")
	c.String(http.StatusOK, "OK")
}

// @Summary Set home
// @Tags flight
// @Produce plain
// @Param coords path string true "lat,lon"
// @Success 200 {string} string "OK"
// @Failure 400 {object} map[string]string
// @Router /set_home/{coords} [get]
func (h *FlightHandler) SetHome(c *gin.Context) {
	p, err := geodesy.ParsePoint(c.Param("coords"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.state.SetHome(p)
	logging.Info(c).Str("home", p.String()).Msg("Home set")
	c.String(http.StatusOK, "OK")
}

// @Summary Trigger
// @Description Fire the on-board action
// @Tags flight
// @Produce json
// @Success 200 {object} TriggerResponse
// @Router /play [get]
func (h *FlightHandler) Play(c *gin.Context) {
	n := h.state.RecordTrigger()
	logging.Info(c).Int("triggers", n).Msg("🔊 Trigger fired")
	c.JSON(http.StatusOK, TriggerResponse{Status: "triggered", Triggers: n})
}
