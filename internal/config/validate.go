package config

import (
	"fmt"
	"slices"

	"github.com/keboola/ai-kit/internal/errors"
)

// Strategies accepted by bump.strategy.
var Strategies = []string{"auto", "structured", "text"}

// Validation errors.
var (
	ErrInvalidStrategy  = errors.New("invalid bump strategy")
	ErrInvalidRetention = errors.New("backup retention must be >= 1")
	ErrInvalidPort      = errors.New("port must be between 1 and 65535")
	ErrEmptyValue       = errors.New("value must not be empty")
)

// FieldError ties a validation error to its configuration key.
type FieldError struct {
	Key   string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %v)", e.Key, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Validate returns every problem found in cfg, or nil.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error
	add := func(key string, value any, err error) {
		errs = append(errs, &FieldError{Key: key, Value: value, Err: err})
	}

	if !slices.Contains(Strategies, cfg.Bump.Strategy) {
		add(KeyBumpStrategy, cfg.Bump.Strategy, ErrInvalidStrategy)
	}
	if cfg.Backup.Retention < 1 {
		add(KeyBackupRetention, cfg.Backup.Retention, ErrInvalidRetention)
	}
	if cfg.Schema.Port < 1 || cfg.Schema.Port > 65535 {
		add(KeySchemaPort, cfg.Schema.Port, ErrInvalidPort)
	}
	if cfg.Settings.PluginRootEnv == "" {
		add(KeyPluginRootEnv, `""`, ErrEmptyValue)
	}
	if cfg.Settings.Template == "" {
		add(KeySettingsTemplate, `""`, ErrEmptyValue)
	}
	return errs
}
