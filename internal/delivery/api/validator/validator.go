// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type customValidator struct {
	validate *validator.Validate
}

// New returns the validator installed on the echo server.
func New() echo.Validator {
	return &customValidator{validate: validator.New()}
}

func (v *customValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// FieldErrors flattens validation failures to field -> failed tag for response details.
func FieldErrors(err error) map[string]string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = fe.Tag()
	}

	return fields
}
