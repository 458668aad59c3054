package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/api/handlers"
	"proxwatch-go/internal/config"
)

// Server is the groundstation: the flight-side HTTP contract the frame
// pipeline reports to.
type Server struct {
	config *config.Config
	router *gin.Engine
	server *http.Server
	state  *FlightState

	healthHandler *handlers.HealthHandler
	flightHandler *handlers.FlightHandler
	systemHandler *handlers.SystemHandler
}

// NewServer wires handlers around state. onArrival runs when a position
// update reaches the active target; nil records a trigger.
func NewServer(cfg *config.Config, state *FlightState, onArrival func()) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	return &Server{
		config:        cfg,
		router:        router,
		state:         state,
		healthHandler: handlers.NewHealthHandler(cfg.WorkerID, cfg.Version),
		flightHandler: handlers.NewFlightHandler(state, onArrival),
		systemHandler: handlers.NewSystemHandler(cfg.WorkerID, state),
	}
}

func (s *Server) Setup() error {
	s.setupMiddleware()

	s.setupRoutes()

	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.GroundstationPort),
		Handler: s.router,
	}

	return nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.config.GroundstationPort).Msg("🚀 Starting groundstation API")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("🛑 Stopping groundstation API...")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) GetServer() *http.Server {
	return s.server
}
