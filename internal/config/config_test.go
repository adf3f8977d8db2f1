package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/smazurov/procctl/internal/process"
	"github.com/spf13/cobra"
)

// TestConfig represents a test configuration structure.
type TestConfig struct {
	Config string `help:"Config file path"`

	// Basic types
	StringField string   `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool     `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int      `toml:"test.int_field" env:"INT_FIELD"`
	SliceField  []string `toml:"test.slice_field" env:"SLICE_FIELD"`

	// Nested config
	NestedString string `toml:"nested.value" env:"NESTED_VALUE"`
}

// PolicyConfig mirrors the shutdown fields of the CLI options.
type PolicyConfig struct {
	Config string

	ShutdownSignal       process.ShutdownSignal  `toml:"shutdown.signal" env:"SHUTDOWN_SIGNAL" flag:"signal"`
	ShutdownTimeout      process.ShutdownTimeout `toml:"shutdown.timeout" env:"SHUTDOWN_TIMEOUT" flag:"timeout"`
	ShutdownPollInterval time.Duration           `toml:"shutdown.poll_interval" env:"SHUTDOWN_POLL_INTERVAL"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "procctl.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeConfig(t, `
[test]
string_field = "hello world"
bool_field = true
int_field = 42
slice_field = ["item1", "item2", "item3"]

[nested]
value = "nested value"
`)

	config := &TestConfig{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "hello world" {
		t.Errorf("Expected StringField to be 'hello world', got '%s'", config.StringField)
	}
	if !config.BoolField {
		t.Errorf("Expected BoolField to be true, got %v", config.BoolField)
	}
	if config.IntField != 42 {
		t.Errorf("Expected IntField to be 42, got %d", config.IntField)
	}
	expectedSlice := []string{"item1", "item2", "item3"}
	if !reflect.DeepEqual(config.SliceField, expectedSlice) {
		t.Errorf("Expected SliceField to be %v, got %v", expectedSlice, config.SliceField)
	}
	if config.NestedString != "nested value" {
		t.Errorf("Expected NestedString to be 'nested value', got '%s'", config.NestedString)
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("PROCCTL_STRING_FIELD", "env string")
	t.Setenv("PROCCTL_BOOL_FIELD", "false")
	t.Setenv("PROCCTL_INT_FIELD", "123")
	t.Setenv("PROCCTL_SLICE_FIELD", "a,b,c")
	t.Setenv("PROCCTL_NESTED_VALUE", "env nested")

	config := &TestConfig{}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "env string" {
		t.Errorf("Expected StringField to be 'env string', got '%s'", config.StringField)
	}
	if config.BoolField {
		t.Errorf("Expected BoolField to be false, got %v", config.BoolField)
	}
	if config.IntField != 123 {
		t.Errorf("Expected IntField to be 123, got %d", config.IntField)
	}
	expectedSlice := []string{"a", "b", "c"}
	if !reflect.DeepEqual(config.SliceField, expectedSlice) {
		t.Errorf("Expected SliceField to be %v, got %v", expectedSlice, config.SliceField)
	}
	if config.NestedString != "env nested" {
		t.Errorf("Expected NestedString to be 'env nested', got '%s'", config.NestedString)
	}
}

func TestLoadConfigEnvOverridesToml(t *testing.T) {
	path := writeConfig(t, `
[test]
string_field = "toml value"
bool_field = true
int_field = 100
slice_field = ["toml1", "toml2"]
`)

	t.Setenv("PROCCTL_STRING_FIELD", "env override")
	t.Setenv("PROCCTL_BOOL_FIELD", "false")

	config := &TestConfig{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.StringField != "env override" {
		t.Errorf("Expected StringField to be 'env override', got '%s'", config.StringField)
	}
	if config.BoolField {
		t.Errorf("Expected BoolField to be false (env override), got %v", config.BoolField)
	}
	if config.IntField != 100 {
		t.Errorf("Expected IntField to be 100 (from TOML), got %d", config.IntField)
	}
	expectedSlice := []string{"toml1", "toml2"}
	if !reflect.DeepEqual(config.SliceField, expectedSlice) {
		t.Errorf("Expected SliceField to be %v (from TOML), got %v", expectedSlice, config.SliceField)
	}
}

func TestLoadConfigTypedFields(t *testing.T) {
	path := writeConfig(t, `
[shutdown]
signal = "INT"
timeout = 30
poll_interval = "250ms"
`)

	config := &PolicyConfig{Config: path}
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if got := config.ShutdownSignal.Signal(); got != process.SIGINT {
		t.Errorf("ShutdownSignal = %v, want INT", got)
	}
	if config.ShutdownTimeout != 30 {
		t.Errorf("ShutdownTimeout = %d, want 30", config.ShutdownTimeout)
	}
	if config.ShutdownPollInterval != 250*time.Millisecond {
		t.Errorf("ShutdownPollInterval = %v, want 250ms", config.ShutdownPollInterval)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfig(t, `
[shutdown]
signal = "INT"
timeout = 30
`)
	t.Setenv("PROCCTL_SHUTDOWN_SIGNAL", "HUP")
	t.Setenv("PROCCTL_SHUTDOWN_TIMEOUT", "20")

	config := &PolicyConfig{Config: path}

	cmd := &cobra.Command{Use: "stop"}
	cmd.Flags().Var(&config.ShutdownSignal, "signal", "shutdown signal")
	cmd.Flags().Var(&config.ShutdownTimeout, "timeout", "shutdown timeout")
	if err := cmd.Flags().Parse([]string{"--timeout", "5"}); err != nil {
		t.Fatalf("Parse flags: %v", err)
	}

	if err := LoadConfig(config, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Flag beats env and file; env beats file.
	if config.ShutdownTimeout != 5 {
		t.Errorf("ShutdownTimeout = %d, want 5 from flag", config.ShutdownTimeout)
	}
	if got := config.ShutdownSignal.Signal(); got != process.SIGHUP {
		t.Errorf("ShutdownSignal = %v, want HUP from env", got)
	}
}

func TestLoadConfigRejectsInvalidTypedValues(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "lowercase signal in file",
			toml:    "[shutdown]\nsignal = \"term\"\n",
			wantErr: process.ErrInvalidSignalName,
		},
		{
			name:    "negative timeout in file",
			toml:    "[shutdown]\ntimeout = -1\n",
			wantErr: process.ErrInvalidTimeoutValue,
		},
		{
			name:    "float timeout in file",
			toml:    "[shutdown]\ntimeout = 8.0\n",
			wantErr: ErrInvalidValueType,
		},
		{
			name:    "quoted timeout in file",
			toml:    "[shutdown]\ntimeout = \"8\"\n",
			wantErr: ErrInvalidValueType,
		},
		{
			name:    "numeric signal in file",
			toml:    "[shutdown]\nsignal = 15\n",
			wantErr: ErrInvalidValueType,
		},
		{
			name:    "prefixed signal in env",
			env:     map[string]string{"PROCCTL_SHUTDOWN_SIGNAL": "SIGTERM"},
			wantErr: process.ErrInvalidSignalName,
		},
		{
			name:    "non-numeric timeout in env",
			env:     map[string]string{"PROCCTL_SHUTDOWN_TIMEOUT": "soon"},
			wantErr: process.ErrInvalidTimeoutValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			config := &PolicyConfig{}
			if tt.toml != "" {
				config.Config = writeConfig(t, tt.toml)
			}

			err := LoadConfig(config, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigRejectsNumericDuration(t *testing.T) {
	config := &PolicyConfig{Config: writeConfig(t, "[shutdown]\npoll_interval = 100\n")}
	if err := LoadConfig(config, nil); err == nil {
		t.Error("LoadConfig should reject a bare number for a duration")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := []struct {
		field string
		tag   string
		want  string
	}{
		{"LoggingLevel", "", "logging-level"},
		{"Port", "", "port"},
		{"ShutdownSignal", `flag:"signal"`, "signal"},
	}

	for _, tt := range tests {
		f := reflect.StructField{Name: tt.field, Tag: reflect.StructTag(tt.tag)}
		if got := flagName(f); got != tt.want {
			t.Errorf("flagName(%s %s) = %q, want %q", tt.field, tt.tag, got, tt.want)
		}
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{
				"value": "nested_value",
			},
			"simple": "simple_value",
		},
		"root": "root_value",
	}

	tests := []struct {
		path     string
		expected any
	}{
		{"root", "root_value"},
		{"level1.simple", "simple_value"},
		{"level1.level2.value", "nested_value"},
		{"nonexistent", nil},
		{"level1.nonexistent", nil},
	}

	for _, test := range tests {
		result := getNestedValue(data, test.path)
		if result != test.expected {
			t.Errorf("getNestedValue(%q) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestSetFieldValue(t *testing.T) {
	type TestStruct struct {
		StringField string
		BoolField   bool
		IntField    int
		SliceField  []string
		Timeout     process.ShutdownTimeout
	}

	s := &TestStruct{}
	v := reflect.ValueOf(s).Elem()

	setFieldValue(v.FieldByName("StringField"), "test string")
	if s.StringField != "test string" {
		t.Errorf("Expected StringField to be 'test string', got '%s'", s.StringField)
	}

	setFieldValue(v.FieldByName("BoolField"), true)
	if !s.BoolField {
		t.Errorf("Expected BoolField to be true, got %v", s.BoolField)
	}

	setFieldValue(v.FieldByName("IntField"), int64(42))
	if s.IntField != 42 {
		t.Errorf("Expected IntField to be 42, got %d", s.IntField)
	}

	setFieldValue(v.FieldByName("SliceField"), []any{"a", "b", "c"})
	expectedSlice := []string{"a", "b", "c"}
	if !reflect.DeepEqual(s.SliceField, expectedSlice) {
		t.Errorf("Expected SliceField to be %v, got %v", expectedSlice, s.SliceField)
	}

	if err := setFieldValue(v.FieldByName("Timeout"), int64(12)); err != nil {
		t.Fatalf("setFieldValue(Timeout) error = %v", err)
	}
	if s.Timeout != 12 {
		t.Errorf("Expected Timeout to be 12, got %d", s.Timeout)
	}
}

func TestSetFieldValueFromString(t *testing.T) {
	type TestStruct struct {
		StringField string
		BoolField   bool
		IntField    int
		SliceField  []string
		Grace       time.Duration
	}

	s := &TestStruct{}
	v := reflect.ValueOf(s).Elem()

	setFieldValueFromString(v.FieldByName("StringField"), "test string")
	if s.StringField != "test string" {
		t.Errorf("Expected StringField to be 'test string', got '%s'", s.StringField)
	}

	setFieldValueFromString(v.FieldByName("BoolField"), "true")
	if !s.BoolField {
		t.Errorf("Expected BoolField to be true, got %v", s.BoolField)
	}

	setFieldValueFromString(v.FieldByName("IntField"), "123")
	if s.IntField != 123 {
		t.Errorf("Expected IntField to be 123, got %d", s.IntField)
	}

	setFieldValueFromString(v.FieldByName("SliceField"), " a , b , c ")
	expectedSlice := []string{"a", "b", "c"}
	if !reflect.DeepEqual(s.SliceField, expectedSlice) {
		t.Errorf("Expected SliceField to be %v, got %v", expectedSlice, s.SliceField)
	}

	if err := setFieldValueFromString(v.FieldByName("Grace"), "3s"); err != nil {
		t.Fatalf("setFieldValueFromString(Grace) error = %v", err)
	}
	if s.Grace != 3*time.Second {
		t.Errorf("Expected Grace to be 3s, got %v", s.Grace)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	config := &TestConfig{
		Config: "nonexistent_file.toml",
	}

	// Should not fail when file doesn't exist
	if err := LoadConfig(config, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	config := &TestConfig{Config: writeConfig(t, "[test\ninvalid toml syntax\n")}

	if err := LoadConfig(config, nil); err == nil {
		t.Fatalf("LoadConfig should fail for invalid TOML")
	}
}

func TestLoadLoggingModuleLevels(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "warn"
format = "json"
shutdown = "debug"
config = "error"
`)

	cfg := LoadLoggingConfig(path)

	if cfg.Level != "warn" || cfg.Format != "json" {
		t.Errorf("Level/Format = %q/%q, want warn/json", cfg.Level, cfg.Format)
	}
	want := map[string]string{"shutdown": "debug", "config": "error"}
	if !reflect.DeepEqual(cfg.Modules, want) {
		t.Errorf("Modules = %v, want %v", cfg.Modules, want)
	}

	if def := LoadLoggingConfig(""); def.Level != "info" || def.Format != "text" {
		t.Errorf("default logging config = %+v", def)
	}
}

func TestLoadShutdownConfig(t *testing.T) {
	tests := []struct {
		name        string
		toml        string
		wantSignal  process.Signal
		wantTimeout process.ShutdownTimeout
		wantPoll    time.Duration
		wantGrace   time.Duration
		wantErr     bool
	}{
		{
			name:        "empty file uses defaults",
			toml:        "",
			wantSignal:  process.SIGTERM,
			wantTimeout: 8,
		},
		{
			name: "full table",
			toml: `
[shutdown]
signal = "QUIT"
timeout = 0
poll_interval = "50ms"
kill_grace = "2s"
`,
			wantSignal:  process.SIGQUIT,
			wantTimeout: 0,
			wantPoll:    50 * time.Millisecond,
			wantGrace:   2 * time.Second,
		},
		{
			name:        "partial table keeps defaults",
			toml:        "[shutdown]\ntimeout = 15\n",
			wantSignal:  process.SIGTERM,
			wantTimeout: 15,
		},
		{name: "unknown signal", toml: "[shutdown]\nsignal = \"STOP\"\n", wantErr: true},
		{name: "overflowing timeout", toml: "[shutdown]\ntimeout = 4294967296\n", wantErr: true},
		{name: "bad duration", toml: "[shutdown]\nkill_grace = \"soon\"\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadShutdownConfig(writeConfig(t, tt.toml))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadShutdownConfig() = %+v, want error", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadShutdownConfig() error = %v", err)
			}
			if got := cfg.Policy.Signal.Signal(); got != tt.wantSignal {
				t.Errorf("Signal = %v, want %v", got, tt.wantSignal)
			}
			if cfg.Policy.Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %d, want %d", cfg.Policy.Timeout, tt.wantTimeout)
			}
			if cfg.PollInterval != tt.wantPoll {
				t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, tt.wantPoll)
			}
			if cfg.KillGrace != tt.wantGrace {
				t.Errorf("KillGrace = %v, want %v", cfg.KillGrace, tt.wantGrace)
			}
		})
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	policy, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadPolicy() error = %v", err)
	}
	if policy.Signal.String() != "TERM" || policy.Timeout != 8 {
		t.Errorf("LoadPolicy() = %+v, want TERM/8", policy)
	}
}
