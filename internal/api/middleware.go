package api

import (
	"slices"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/auth"
	"github.com/Abhinavj12/hackfest-2025/internal/service"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	msgTooManyRequests      = "Too many requests from this IP, please try again later."
	msgTooManyRegistrations = "Too many registration attempts, please try again later."
	msgUnauthorized         = "Missing or invalid admin token"

	globalWindow   = 15 * time.Minute
	registerWindow = time.Hour
)

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				// Render now so the logged status is the one sent.
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return nil
		}
	}
}

// AuthMiddleware accepts "Authorization: Bearer <jwt>" tokens of the allowed types.
func (h *Handler) AuthMiddleware(allowed ...auth.TokenType) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			tokenType, ok := h.issuer.IsValidToken(key)
			return ok && slices.Contains(allowed, tokenType), nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			logger.FromContext(c.Request().Context()).Warn("admin request rejected", zap.Error(err))
			return h.transportError(c, service.NewError(service.ErrorCodeUnauthorized, msgUnauthorized))
		},
	})
}

// rateLimiter allows limit requests per window for each client IP.
func (h *Handler) rateLimiter(limit int, window time.Duration, message string) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(limit) / window.Seconds()),
		Burst:     limit,
		ExpiresIn: window,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			logger.FromContext(c.Request().Context()).Warn("rate limit exceeded", zap.String("remote_ip", identifier))
			return h.transportError(c, service.NewError(service.ErrorCodeRateLimited, message))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return h.transportError(c, service.NewInternalError(msgInternal, err))
		},
	})
}
