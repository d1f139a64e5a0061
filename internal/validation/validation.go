// Package validation configures go-playground/validator for registration payloads
// and turns its errors into field-level messages.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)

// New returns a validator that reports JSON field names and understands the "phone" tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// Problems is a validation failure broken down for API responses.
type Problems struct {
	// Missing lists required fields that were absent or blank.
	Missing []string
	// Fields lists every other offending field, in struct order.
	Fields  []string
	Details []string
}

func (p Problems) Empty() bool {
	return len(p.Missing) == 0 && len(p.Fields) == 0 && len(p.Details) == 0
}

// Explain breaks err, as returned by (*validator.Validate).Struct, into Problems.
func Explain(err error) Problems {
	var p Problems
	if err == nil {
		return p
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		p.Details = append(p.Details, err.Error())
		return p
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			p.Missing = append(p.Missing, fe.Field())
			continue
		}
		p.Fields = append(p.Fields, fe.Field())
		p.Details = append(p.Details, message(fe))
	}

	return p
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "email":
		return "Please provide a valid email address"
	case "phone":
		return "Please provide a valid phone number"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Maximum %s additional members allowed (%s total including leader)", fe.Param(), totalWithLeader(fe.Param()))
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func totalWithLeader(param string) string {
	var n int
	if _, err := fmt.Sscanf(param, "%d", &n); err != nil {
		return param
	}
	return fmt.Sprint(n + 1)
}
