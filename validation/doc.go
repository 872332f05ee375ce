// Package validation validates configuration structs.
//
// Struct tags are checked with go-playground/validator; programmatic checks
// are chained on a Validator. Both report failures as an INVALID_CONFIG
// AppError whose "fields" detail lists every failing field.
//
//	type BufferConfig struct {
//	    Size int `mapstructure:"size" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
//	err := validation.New().
//	    Required("name", cfg.Name).
//	    OneOf("environment", cfg.Environment, envs).
//	    Validate()
package validation
