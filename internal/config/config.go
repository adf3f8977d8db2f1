package config

import (
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/procctl/internal/logging"
	"github.com/smazurov/procctl/internal/shutdown"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "PROCCTL_"

// ErrInvalidValueType is returned when a config file value has the wrong TOML type.
var ErrInvalidValueType = errors.New("invalid value type")

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	durationType        = reflect.TypeFor[time.Duration]()
)

// LoadConfig loads configuration with proper precedence: CLI args > env vars > config file.
// If cmd is provided, flags explicitly set via CLI will not be overwritten.
//
// Fields are matched by their toml (dotted path) and env tags. The CLI flag
// for a field is named by its flag tag, or derived from the field name.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()

	// Build set of flags explicitly changed via CLI
	changedFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changedFlags[f.Name] = true
			}
		})
	}

	// Get config file path
	var configPath string
	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)
		if fieldType.Name == "Config" {
			configPath = v.Field(i).String()
			break
		}
	}

	// Load TOML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var config map[string]any
			if err := toml.Unmarshal(data, &config); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}

			// Apply TOML values using reflection
			for i := 0; i < v.NumField(); i++ {
				field := v.Field(i)
				fieldType := t.Field(i)

				// Skip if this flag was explicitly set via CLI
				if changedFlags[flagName(fieldType)] {
					continue
				}

				if tomlPath := fieldType.Tag.Get("toml"); tomlPath != "" {
					if value := getNestedValue(config, tomlPath); value != nil {
						if err := setFieldValue(field, value); err != nil {
							return fmt.Errorf("%s: %s: %w", configPath, tomlPath, err)
						}
					}
				}
			}
		}
	}

	// Apply environment variable overrides (skip CLI-set flags)
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Skip if this flag was explicitly set via CLI
		if changedFlags[flagName(fieldType)] {
			continue
		}

		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envValue := os.Getenv(EnvPrefix + envKey); envValue != "" {
				if err := setFieldValueFromString(field, envValue); err != nil {
					return fmt.Errorf("%s%s: %w", EnvPrefix, envKey, err)
				}
			}
		}
	}

	return nil
}

// flagName returns the CLI flag bound to a field.
func flagName(field reflect.StructField) string {
	if name := field.Tag.Get("flag"); name != "" {
		return name
	}
	return fieldNameToFlag(field.Name)
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "LoggingLevel" -> "logging-level", "Port" -> "port".
func fieldNameToFlag(fieldName string) string {
	var result []rune
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			result = append(result, '-')
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			return nil
		}
	}
	return nil
}

// textUnmarshaler returns the field as an encoding.TextUnmarshaler, if it is one.
func textUnmarshaler(field reflect.Value) (encoding.TextUnmarshaler, bool) {
	if !field.CanAddr() || !field.Addr().Type().Implements(textUnmarshalerType) {
		return nil, false
	}
	u, ok := field.Addr().Interface().(encoding.TextUnmarshaler)
	return u, ok
}

// setFieldValue sets a field value from a decoded TOML value.
func setFieldValue(field reflect.Value, value any) error {
	if !field.CanSet() {
		return nil
	}

	// Typed values (signals, timeouts) parse their own text form. Integer
	// kinds take a bare TOML integer, everything else a string.
	if u, ok := textUnmarshaler(field); ok {
		text, err := typedText(field.Kind(), value)
		if err != nil {
			return err
		}
		return u.UnmarshalText([]byte(text))
	}

	if field.Type() == durationType {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("duration must be a string like \"100ms\", got %v", value)
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, ok := value.(int64); ok {
			field.SetInt(i)
		} else if i, intOk := value.(int); intOk {
			field.SetInt(int64(i))
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			if arr, ok := value.([]any); ok {
				slice := make([]string, len(arr))
				for i, v := range arr {
					if s, strOk := v.(string); strOk {
						slice[i] = s
					}
				}
				field.Set(reflect.ValueOf(slice))
			}
		}
	}
	return nil
}

// typedText returns the text form of a TOML value for a field of kind.
func typedText(kind reflect.Kind, value any) (string, error) {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := value.(int64)
		if !ok {
			return "", fmt.Errorf("%w: want an integer, got %T %v", ErrInvalidValueType, value, value)
		}
		return strconv.FormatInt(i, 10), nil
	default:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: want a string, got %T %v", ErrInvalidValueType, value, value)
		}
		return s, nil
	}
}

// setFieldValueFromString sets a field value from string (for env vars).
func setFieldValueFromString(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	if u, ok := textUnmarshaler(field); ok {
		return u.UnmarshalText([]byte(value))
	}

	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Parse comma-separated values for env vars
			parts := strings.Split(value, ",")
			slice := make([]string, len(parts))
			for i, part := range parts {
				slice[i] = strings.TrimSpace(part)
			}
			field.Set(reflect.ValueOf(slice))
		}
	}
	return nil
}

// LoadLoggingConfig loads logging configuration from a TOML config file.
// Returns default config if file doesn't exist or can't be parsed.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	if configPath == "" {
		return cfg
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var rawConfig struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &rawConfig); err != nil {
		return cfg
	}

	if rawConfig.Logging == nil {
		return cfg
	}

	// Extract level and format, rest are module-specific levels
	for key, value := range rawConfig.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}

	return cfg
}

// ShutdownConfig is the [shutdown] table of the config file.
type ShutdownConfig struct {
	Policy       shutdown.Policy
	PollInterval time.Duration
	KillGrace    time.Duration
}

// DefaultShutdownConfig returns the default policy with zero intervals,
// which the stopper replaces with its own defaults.
func DefaultShutdownConfig() ShutdownConfig {
	return ShutdownConfig{Policy: shutdown.DefaultPolicy()}
}

// LoadShutdownConfig reads the [shutdown] table over defaults. A missing file
// yields the defaults; a malformed one is an error.
func LoadShutdownConfig(configPath string) (ShutdownConfig, error) {
	cfg := DefaultShutdownConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	// Absent keys keep the defaults set above.
	raw := struct {
		Shutdown struct {
			Signal       *string `toml:"signal"`
			Timeout      *int64  `toml:"timeout"`
			PollInterval string  `toml:"poll_interval"`
			KillGrace    string  `toml:"kill_grace"`
		} `toml:"shutdown"`
	}{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	s := raw.Shutdown
	if s.Signal != nil {
		if err := cfg.Policy.Signal.UnmarshalText([]byte(*s.Signal)); err != nil {
			return cfg, fmt.Errorf("shutdown.signal: %w", err)
		}
	}
	if s.Timeout != nil {
		if err := cfg.Policy.Timeout.UnmarshalText([]byte(strconv.FormatInt(*s.Timeout, 10))); err != nil {
			return cfg, fmt.Errorf("shutdown.timeout: %w", err)
		}
	}
	if s.PollInterval != "" {
		if cfg.PollInterval, err = time.ParseDuration(s.PollInterval); err != nil {
			return cfg, fmt.Errorf("shutdown.poll_interval: %w", err)
		}
	}
	if s.KillGrace != "" {
		if cfg.KillGrace, err = time.ParseDuration(s.KillGrace); err != nil {
			return cfg, fmt.Errorf("shutdown.kill_grace: %w", err)
		}
	}

	return cfg, nil
}

// LoadPolicy reads the shutdown policy from the [shutdown] table.
func LoadPolicy(configPath string) (shutdown.Policy, error) {
	cfg, err := LoadShutdownConfig(configPath)
	return cfg.Policy, err
}
