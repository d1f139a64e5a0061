package api

import (
	"github.com/Abhinavj12/hackfest-2025/internal/service"
	"github.com/Abhinavj12/hackfest-2025/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func ProcessRequest[T any](e echo.Context, req *T, steps ...func(echo.Context, *T) error) error {
	for _, step := range steps {
		if err := step(e, req); err != nil {
			return err
		}
	}
	return nil
}

func bindStep[T any](e echo.Context, req *T) error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeValidation, "invalid request body")
	}
	return nil
}

func validateStep[T any](e echo.Context, req *T) error {
	if err := e.Validate(req); err != nil {
		return service.NewValidationError(validation.Explain(err))
	}
	return nil
}

// decodeRequest binds and validates req. Payloads validated by a service skip the second step.
func decodeRequest[T any](e echo.Context, req *T, validate bool) *service.Error {
	steps := []func(echo.Context, *T) error{bindStep[T]}
	if validate {
		steps = append(steps, validateStep[T])
	}

	err := ProcessRequest(e, req, steps...)
	if err == nil {
		return nil
	}

	var serr *service.Error
	if errors.As(err, &serr) {
		return serr
	}
	return service.NewInternalError("invalid request", err)
}
