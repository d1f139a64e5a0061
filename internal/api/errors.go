package api

import (
	"net/http"

	"github.com/Abhinavj12/hackfest-2025/internal/service"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	msgRouteNotFound = "Route not found"
	msgInternal      = "Something went wrong!"
)

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := *err
	if err.Code == service.ErrorCodeInternal && err.Cause() != nil && !h.cfg.IsProduction() {
		response.Details = append(append([]string{}, err.Details...), err.Cause().Error())
	}

	return e.JSON(statusFor(err.Code), &response)
}

func statusFor(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeValidation, service.ErrorCodeCapacity, service.ErrorCodeInvalidID:
		return http.StatusBadRequest
	case service.ErrorCodeConflict:
		return http.StatusConflict
	case service.ErrorCodeNotFound:
		return http.StatusNotFound
	case service.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case service.ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// httpErrorHandler renders errors that escape handlers: unknown routes, middleware rejections and recovered panics.
func (h *Handler) httpErrorHandler(err error, e echo.Context) {
	if e.Response().Committed {
		return
	}

	l := logger.FromContext(e.Request().Context())

	var serr *service.Error
	if errors.As(err, &serr) {
		_ = h.transportError(e, serr)
		return
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) && herr.Code < http.StatusInternalServerError {
		status := herr.Code
		var resp *service.Error
		switch herr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			status = http.StatusNotFound
			resp = service.NewError(service.ErrorCodeNotFound, msgRouteNotFound)
		case http.StatusUnauthorized:
			resp = service.NewError(service.ErrorCodeUnauthorized, http.StatusText(herr.Code))
		case http.StatusTooManyRequests:
			resp = service.NewError(service.ErrorCodeRateLimited, msgTooManyRequests)
		default:
			resp = service.NewError(service.ErrorCodeValidation, http.StatusText(herr.Code))
		}

		if e.Request().Method == http.MethodHead {
			_ = e.NoContent(status)
			return
		}
		_ = e.JSON(status, resp)
		return
	}

	l.Error("unhandled error", zap.Error(err))
	_ = h.transportError(e, service.NewInternalError(msgInternal, err))
}
