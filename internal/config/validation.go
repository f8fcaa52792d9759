package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // Validator caches struct metadata
var validate = validator.New()

// Validate validates the configuration using struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]

		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}

	return err
}
