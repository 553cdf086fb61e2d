package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		// use the route template so path params don't explode cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(method, path, status, time.Since(start))
	}
}

// Timer measures a media load
type Timer struct {
	start   time.Time
	metrics *Metrics
	slot    string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, slot string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		slot:    slot,
	}
}

// Stop stops the timer and records the load with the given status
func (t *Timer) Stop(status string) {
	t.metrics.RecordMediaLoad(t.slot, status, time.Since(t.start))
}
