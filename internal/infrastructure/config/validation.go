package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validateConfig checks Config's struct tags with go-playground/validator,
// matching the teacher's Validator wrapper.
func validateConfig(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var messages []string
		for _, e := range verrs {
			messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s", e.Field(), e.Tag()))
		}
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
	}
	return nil
}
