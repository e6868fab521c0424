// Package handler wires the ops HTTP surface: health, readiness, run status,
// metrics and the manual run trigger.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/gimvic/schedule-sync/internal/service"
	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
	"github.com/gimvic/schedule-sync/pkg/jobs"
	"github.com/gimvic/schedule-sync/pkg/response"
)

// OpsHandler serves the observability and trigger endpoints.
type OpsHandler struct {
	db        *sqlx.DB
	redis     *redis.Client
	status    *service.StatusService
	metrics   *service.MetricsService
	scheduler *jobs.Scheduler
}

// NewOpsHandler constructs the ops handler.
func NewOpsHandler(db *sqlx.DB, redisClient *redis.Client, status *service.StatusService, metrics *service.MetricsService, scheduler *jobs.Scheduler) *OpsHandler {
	return &OpsHandler{db: db, redis: redisClient, status: status, metrics: metrics, scheduler: scheduler}
}

// Health responds with a liveness payload.
func (h *OpsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks the database and cache connections.
func (h *OpsHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusServiceUnavailable, "database unavailable"))
			return
		}
	}
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusServiceUnavailable, "cache unavailable"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Status reports the last run result per registered source.
func (h *OpsHandler) Status(c *gin.Context) {
	overview, err := h.status.Overview(c.Request.Context(), h.scheduler.Sources())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview)
}

// Prometheus serves the metrics endpoint.
func (h *OpsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// TriggerRun starts one source run in the background. A run already in
// flight for the source is a conflict, not a queue.
func (h *OpsHandler) TriggerRun(c *gin.Context) {
	name := c.Param("source")
	if err := h.scheduler.Trigger(name); err != nil {
		switch {
		case errors.Is(err, jobs.ErrUnknownSource):
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, err.Error()))
		case errors.Is(err, jobs.ErrAlreadyRunning):
			response.Error(c, appErrors.Clone(appErrors.ErrConflict, err.Error()))
		default:
			response.Error(c, err)
		}
		return
	}
	response.Accepted(c, gin.H{"source": name, "status": "triggered"})
}
