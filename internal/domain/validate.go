package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func serverValidator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterStructValidation(validateServerTarget, ServerConfig{})
		validate = v
	})
	return validate
}

// ValidateServerConfig checks field constraints and the type-specific launch target.
func ValidateServerConfig(cfg ServerConfig) error {
	err := serverValidator().Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, describeFieldErrors(fieldErrs))
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

func validateServerTarget(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(ServerConfig)
	if !ok {
		return
	}
	switch cfg.Type {
	case ServerTypeLocal:
		if len(cfg.Command) == 0 || strings.TrimSpace(cfg.Command[0]) == "" {
			sl.ReportError(cfg.Command, "command", "Command", "required_for_local", "")
		}
	case ServerTypeRemote:
		if strings.TrimSpace(cfg.URL) == "" {
			sl.ReportError(cfg.URL, "url", "URL", "required_for_remote", "")
		}
	}
}

func describeFieldErrors(fieldErrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
