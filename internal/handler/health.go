package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/meetapp/internal/middleware"
	"github.com/deppfellow/meetapp/internal/server"
	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 5 * time.Second

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthCheck struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]healthCheck `json:"checks"`
}

// CheckHealth pings the database and Redis. An unreachable database makes
// the service unhealthy (503). Redis only backs welcome emails, so its
// failure is reported as degraded and still answers 200.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]healthCheck),
	}

	if h.server.DB != nil {
		check := h.ping(c.Request().Context(), "database", h.server.DB.Pool.Ping)
		response.Checks["database"] = check
		if check.Error != "" {
			response.Status = "unhealthy"
		}
	}

	if h.server.Redis != nil {
		check := h.ping(c.Request().Context(), "redis", func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		})
		response.Checks["redis"] = check
		if check.Error != "" && response.Status == "healthy" {
			response.Status = "degraded"
		}
	}

	if response.Status == "unhealthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Str("status", response.Status).
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) ping(ctx context.Context, name string, ping func(context.Context) error) healthCheck {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err == nil {
		return healthCheck{Status: "healthy", ResponseTime: elapsed.String()}
	}

	zlog := h.server.Logger.With().Str("check_type", name).Logger()
	zlog.Error().Err(err).Dur("response_time", elapsed).Msg("health check failed")

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	return healthCheck{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
}
