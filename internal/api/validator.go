package api

import (
	"github.com/Abhinavj12/hackfest-2025/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type requestValidator struct {
	validate *validator.Validate
}

func NewValidator() echo.Validator {
	return &requestValidator{validate: validation.New()}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
