package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pegasus-hq/support-core/internal/observability"
	"github.com/pegasus-hq/support-core/internal/persistence"
)

// HealthHandler serves liveness, readiness and counter snapshots.
type HealthHandler struct {
	mongo   *persistence.Mongo
	redis   *persistence.Redis
	metrics *observability.Metrics
	version string
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(mongo *persistence.Mongo, redis *persistence.Redis, metrics *observability.Metrics, version string) *HealthHandler {
	return &HealthHandler{mongo: mongo, redis: redis, metrics: metrics, version: version}
}

// Live reports process liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": h.version})
}

// Ready reports dependency health. The document store is required; Redis only
// carries best-effort event fan-out, so its failure degrades but does not
// fail readiness.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{"mongo": "ok", "redis": "ok"}
	status := "ok"
	code := http.StatusOK

	if err := h.mongo.Ping(c.UserContext()); err != nil {
		checks["mongo"] = err.Error()
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if err := h.redis.Ping(c.UserContext()); err != nil {
		checks["redis"] = err.Error()
		if status == "ok" {
			status = "degraded"
		}
	}

	return c.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
}

// Metrics dumps the in-memory request and error counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"requests": requests, "errors": errs})
}
