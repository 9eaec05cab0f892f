package dto

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindingValidations installs the custom validators the DTO binding
// tags rely on. It must run before any request is bound; the server calls it
// at startup and test suites call it when mounting handlers directly.
// Registration is idempotent.
func RegisterBindingValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding validator engine is not *validator.Validate")
	}
	// payroll periods must live in a plausible calendar year
	return v.RegisterValidation("plausible_year", func(fl validator.FieldLevel) bool {
		year := fl.Field().Int()
		return year >= 2000 && year <= 2100
	})
}
