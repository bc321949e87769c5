package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks a Config against its validate tags and cross-field rules.
// Failures are reported by config key (database.type) rather than Go field name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that names fields by their mapstructure tag
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	v.RegisterStructValidation(validateCatalog, CatalogConfig{})
	v.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	v.RegisterStructValidation(validatePool, PoolConfig{})

	return &Validator{validate: v}
}

// Validate runs tag and struct-level rules on i
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		problems = append(problems, describe(e))
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}

// describe renders one failure as "<config.key>: <reason>"
func describe(e validator.FieldError) string {
	// Namespace is "Config.database.type"; drop the root struct name
	key := e.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: must be set", key)
	case "required_if":
		return fmt.Sprintf("%s: must be set when %s", key, e.Param())
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of [%s]", key, e.Value(), e.Param())
	case "url":
		return fmt.Sprintf("%s: %q is not a URL", key, e.Value())
	case "startswith":
		return fmt.Sprintf("%s: must start with %q", key, e.Param())
	case "min", "max":
		return fmt.Sprintf("%s: %v violates %s=%s", key, e.Value(), e.Tag(), e.Param())
	case "positive":
		return fmt.Sprintf("%s: must be positive", key)
	case "pool":
		return fmt.Sprintf("%s: max_idle cannot exceed max_open", key)
	default:
		return fmt.Sprintf("%s: failed %q (value: %v)", key, e.Tag(), e.Value())
	}
}

func validateCatalog(sl validator.StructLevel) {
	c := sl.Current().Interface().(CatalogConfig)
	if c.ResolveTimeout < 0 {
		sl.ReportError(c.ResolveTimeout, "resolve_timeout", "ResolveTimeout", "positive", "")
	}
	if c.BulkTimeout < 0 {
		sl.ReportError(c.BulkTimeout, "bulk_timeout", "BulkTimeout", "positive", "")
	}
}

func validateDatabase(sl validator.StructLevel) {
	d := sl.Current().Interface().(DatabaseConfig)
	if d.Retention < 0 {
		sl.ReportError(d.Retention, "retention", "Retention", "positive", "")
	}
	if d.Type == "postgres" && d.URL == "" && d.Name == "" {
		sl.ReportError(d.Name, "name", "Name", "required", "")
	}
}

func validatePool(sl validator.StructLevel) {
	p := sl.Current().Interface().(PoolConfig)
	if p.MaxIdle > p.MaxOpen {
		sl.ReportError(p.MaxIdle, "max_idle", "MaxIdle", "pool", "")
	}
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	if err := NewValidator().Validate(cfg); err != nil {
		return err
	}
	if cfg.Worker.PollInterval <= 0 {
		return fmt.Errorf("worker.poll_interval: must be positive")
	}
	return nil
}
