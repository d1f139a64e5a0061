package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/db"
	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const mongoCheckTimeout = 5 * time.Second

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

type healthChecker struct {
	health      *health.Health
	environment string
	started     time.Time
}

type healthResponse struct {
	health.Check
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

func NewHealthChecker(component health.Component, environment string, checks ...health.Config) (HealthChecker, error) {
	h, err := health.New(health.WithComponent(component))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create health checker")
	}

	for _, check := range checks {
		if err = h.Register(check); err != nil {
			return nil, errors.Wrapf(err, "failed to register health check %q", check.Name)
		}
	}

	return &healthChecker{
		health:      h,
		environment: environment,
		started:     time.Now(),
	}, nil
}

// MongoCheck reports the store as unavailable when a primary ping fails.
func MongoCheck(p db.Pinger) health.Config {
	return health.Config{
		Name:    "mongodb",
		Timeout: mongoCheckTimeout,
		Check: func(ctx context.Context) error {
			return p.Ping(ctx)
		},
	}
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return func(e echo.Context) error {
		check := h.health.Measure(e.Request().Context())

		status := http.StatusOK
		if check.Status != health.StatusOK && check.Status != health.StatusPartiallyAvailable {
			status = http.StatusServiceUnavailable
		}

		return e.JSON(status, healthResponse{
			Check:       check,
			Uptime:      time.Since(h.started).Seconds(),
			Environment: h.environment,
		})
	}
}
