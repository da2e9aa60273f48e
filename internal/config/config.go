// Package config loads the repertoire configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/corentings/repertoire/trainer"
)

// DefaultPath is the file read when no --config flag is given. It may be
// missing.
const DefaultPath = "repertoire.yaml"

// Config is the full configuration.
type Config struct {
	// Corpus lists PGN files or directories. Empty means the embedded corpus.
	Corpus  []string      `yaml:"corpus" validate:"dive,required"`
	Watch   bool          `yaml:"watch"`
	Trainer TrainerConfig `yaml:"trainer"`
	Log     LogConfig     `yaml:"log"`
	Board   BoardConfig   `yaml:"board"`
}

// TrainerConfig holds the session pacing and hint settings.
type TrainerConfig struct {
	AutomatedDelay     time.Duration `yaml:"automated_delay" validate:"gte=0"`
	HintDelay          time.Duration `yaml:"hint_delay" validate:"gte=0"`
	MistakesBeforeHint int           `yaml:"mistakes_before_hint" validate:"gte=1"`
	ShowHints          bool          `yaml:"show_hints"`
	Explore            bool          `yaml:"explore"`
}

// LogConfig selects the log level and the file the logger writes to.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file" validate:"required"`
}

// BoardConfig configures the board image.
type BoardConfig struct {
	// SVG is where the board snapshot is written after every move. Empty
	// disables it.
	SVG string `yaml:"svg"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Trainer: TrainerConfig{
			AutomatedDelay:     trainer.DefaultAutomatedDelay,
			HintDelay:          trainer.DefaultHintDelay,
			MistakesBeforeHint: trainer.DefaultMistakesBeforeHint,
			ShowHints:          true,
		},
		Log: LogConfig{
			Level: "info",
			File:  "repertoire.log",
		},
	}
}

var validate = validator.New()

// Load reads path over Default and validates the result. A missing file is
// not an error when path is DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		return cfg, nil
	case err != nil:
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// TrainerOptions turns the trainer section into session options.
func (c Config) TrainerOptions() []trainer.Option {
	return []trainer.Option{
		trainer.WithAutomatedDelay(c.Trainer.AutomatedDelay),
		trainer.WithHintDelay(c.Trainer.HintDelay),
		trainer.WithMistakesBeforeHint(c.Trainer.MistakesBeforeHint),
		trainer.WithExplore(c.Trainer.Explore),
	}
}

func formatValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrors))
	for _, e := range fieldErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
