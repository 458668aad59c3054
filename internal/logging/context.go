package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Keys set on the gin context by the groundstation middleware.
const (
	KeyRequestID = "request_id"
	KeyStartTime = "start_time"
)

// withGinContext decorates e with request id, route, client and elapsed time
// taken from c. A nil context leaves e untouched.
func withGinContext(c *gin.Context, e *zerolog.Event) *zerolog.Event {
	if c == nil {
		return e
	}
	if id := c.GetString(KeyRequestID); id != "" {
		e.Str("request_id", id)
	}
	if route := c.FullPath(); route != "" {
		e.Str("route", route)
	}
	if c.Request != nil {
		e.Str("client", c.ClientIP())
	}
	if v, ok := c.Get(KeyStartTime); ok {
		if t, ok2 := v.(time.Time); ok2 {
			e.Dur("elapsed", time.Since(t))
		}
	}
	return e
}

func Info(c *gin.Context) *zerolog.Event  { return withGinContext(c, log.Info()) }
func Debug(c *gin.Context) *zerolog.Event { return withGinContext(c, log.Debug()) }
func Warn(c *gin.Context) *zerolog.Event  { return withGinContext(c, log.Warn()) }
func Error(c *gin.Context) *zerolog.Event { return withGinContext(c, log.Error()) }
