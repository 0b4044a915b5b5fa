package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /health. db is nil with the memory driver, in which
// case the process is ready as soon as it is live.
type HealthHandler struct {
	db      Pinger
	driver  string
	version string
	started time.Time
}

func NewHealthHandler(db Pinger, driver, version string) *HealthHandler {
	return &HealthHandler{db: db, driver: driver, version: version, started: time.Now()}
}

// Live answers GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready answers GET /health/ready with 503 while postgres cannot be pinged.
func (h *HealthHandler) Ready(c *gin.Context) {
	storage := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			storage = err.Error()
		}
	}

	status, code := "ok", http.StatusOK
	if storage != "ok" {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": gin.H{h.driver: storage},
	})
}

// Info answers GET /health/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "oflo",
		"version": h.version,
		"storage": h.driver,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
