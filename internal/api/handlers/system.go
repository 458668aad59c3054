package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCounters exposes the flight session totals reported under /system.
type SessionCounters interface {
	Counters() (mode string, triggers, arrivals int, fixAge time.Duration)
}

// SystemHandler handles system-related endpoints
type SystemHandler struct {
	WorkerID  string
	session   SessionCounters
	startedAt time.Time
}

func NewSystemHandler(workerID string, session SessionCounters) *SystemHandler {
	return &SystemHandler{
		WorkerID:  workerID,
		session:   session,
		startedAt: time.Now(),
	}
}

// @Summary Get system stats
// @Description Process and flight session statistics
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/stats [get]
func (h *SystemHandler) GetStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mode, triggers, arrivals, fixAge := h.session.Counters()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"worker_id":  h.WorkerID,
			"uptime_s":   int64(time.Since(h.startedAt).Seconds()),
			"memory_mb":  m.Alloc / 1024 / 1024,
			"goroutines": runtime.NumGoroutine(),
		},
		"session": gin.H{
			"mode":      mode,
			"triggers":  triggers,
			"arrivals":  arrivals,
			"fix_age_s": fixAge.Seconds(),
		},
		"timestamp": time.Now().Unix(),
	})
}

// @Summary Get debug info
// @Description Route table and build details for troubleshooting
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /system/debug [get]
func (h *SystemHandler) GetDebugInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"debug": gin.H{
			"worker_id":  h.WorkerID,
			"go_version": runtime.Version(),
			"endpoints": []string{
				"/health", "/telemetry", "/location", "/set_target/:coords",
				"/set_home/:coords", "/play", "/state", "/system/stats",
			},
		},
		"timestamp": time.Now().Unix(),
	})
}
