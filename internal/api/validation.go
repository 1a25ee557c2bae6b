package api

import (
	"evalgo.org/erdgen/internal/validation"
)

// requestValidator plugs the payload validator into echo's c.Validate.
type requestValidator struct {
	v *validation.Validator
}

// Validate implements echo.Validator.
func (rv *requestValidator) Validate(i interface{}) error {
	errs := rv.v.Struct(i)
	if len(errs) == 0 {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	return ValidationError("Validation failed", fields)
}
