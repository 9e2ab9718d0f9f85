package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

var validate = validator.New()

// ValidateConfig checks the struct constraints and the requirements of the
// current environment.
func ValidateConfig(cfg *Config) error {
	var problems ValidationErrors

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			problems = append(problems, ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q constraint (value %q)", fe.Tag(), fmt.Sprint(fe.Value())),
			})
		}
	}

	switch cfg.Environment {
	case Production, CI:
		if cfg.LLMAPIKey == "" {
			problems = append(problems, ValidationError{
				Field:   "LLMAPIKey",
				Message: fmt.Sprintf("llm_api_key secret or LLM_API_KEY is required in %s", cfg.Environment),
			})
		}
	}

	if cfg.Environment == Production {
		if cfg.DBDriver == "sqlite" {
			problems = append(problems, ValidationError{Field: "DBDriver", Message: "sqlite is not supported in production"})
		}
		if cfg.DBPassword == "" {
			problems = append(problems, ValidationError{Field: "DBPassword", Message: "db_password secret is required"})
		}
	}

	if len(problems) > 0 {
		return problems
	}
	return nil
}
