package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	s.router.GET("/telemetry", s.flightHandler.GetTelemetry)
	s.router.POST("/telemetry", s.flightHandler.PostTelemetry)
	s.router.GET("/location", s.flightHandler.GetTelemetry)
	s.router.GET("/set_target/:coords", s.flightHandler.SetTarget)
	s.router.GET("/set_home/:coords", s.flightHandler.SetHome)
	s.router.GET("/play", s.flightHandler.Play)
	s.router.GET("/state", s.getState)

	system := s.router.Group("/system")
	{
		system.GET("/stats", s.systemHandler.GetStats)
		system.GET("/debug", s.systemHandler.GetDebugInfo)
	}
}

// @Summary Flight state
// @Description Full groundstation session: pose, home, target, mode and counters
// @Tags flight
// @Produce json
// @Success 200 {object} StateSnapshot
// @Router /state [get]
func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot())
}
