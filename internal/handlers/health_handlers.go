package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthCheck reports process liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessCheck reports whether the service is ready to take traffic.
func ReadinessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// HealthCheckDetailed additionally pings the database.
func HealthCheckDetailed(c echo.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	services := map[string]string{"database": "ok"}
	status := http.StatusOK
	if err := pool.Ping(ctx); err != nil {
		services["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]interface{}{
		"status":    services["database"],
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	})
}
