package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shanebrain/postbot/app/cfg"
	"github.com/shanebrain/postbot/app/platform"
)

// StatsSource exposes the scheduler's cumulative counters and planned runs.
type StatsSource interface {
	Stats() (posts, errors int)
	NextRuns(n int) []time.Time
}

type Handler struct {
	platforms []platform.Platform
	stats     StatsSource
	startedAt time.Time
}

func NewHandler(platforms []platform.Platform, stats StatsSource) *Handler {
	return &Handler{
		platforms: platforms,
		stats:     stats,
		startedAt: time.Now(),
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": cfg.Get().Version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	posts, errors := h.stats.Stats()

	nextRuns := make([]string, 0, 3)
	for _, t := range h.stats.NextRuns(3) {
		nextRuns = append(nextRuns, t.Format(time.RFC3339))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":     posts,
		"errors":    errors,
		"next_runs": nextRuns,
	})
}

func (h *Handler) ListPlatforms(c *gin.Context) {
	list := make([]gin.H, 0, len(h.platforms))
	for _, p := range h.platforms {
		list = append(list, gin.H{
			"name":       p.Name(),
			"max_length": p.MaxLength(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"platforms": list,
		"total":     len(list),
	})
}
