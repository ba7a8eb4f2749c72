package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TaskPath string            `flag:"file" validate:"required"`
	Task     string            `flag:"task" validate:"required_without=List"`
	Params   map[string]string `flag:"params"`

	LogLevel  string `flag:"log-level" validate:"oneof=debug info warn error"`
	LogFormat string `flag:"log-format" validate:"oneof=text json auto"`

	DryRun      bool   `flag:"dry-run"`
	List        bool   `flag:"list"`
	TraceFile   string `flag:"trace-file"`
	MetricsFile string `flag:"metrics-file"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("flag"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return nil, errors.New(strings.Join(msgs, "; "))
	}
	return &cfg, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		opts := strings.ReplaceAll(fe.Param(), " ", "', '")
		return fmt.Sprintf("invalid %s %q: must be one of '%s'", fe.Field(), fe.Value(), opts)
	default:
		return fe.Error()
	}
}
