// FILE: config.go
package fanlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
	"github.com/lixenwraith/fanlog/formatter"
	"github.com/lixenwraith/fanlog/sanitizer"
)

// Config describes one leaf logger and the sinks it owns.
// A sink is enabled by its switch or path; each has its own threshold.
type Config struct {
	// Basic settings
	Name       string `toml:"name"`
	Level      string `toml:"level"`       // Logger threshold
	FlushLevel string `toml:"flush_level"` // Flush all sinks at or above, "off" disables
	SinkLock   string `toml:"sink_lock"`   // "mt" or "st"

	// Formatting
	Format          string `toml:"format"`  // "txt", "json", or "raw"
	Pattern         string `toml:"pattern"` // txt only, empty for the field layout
	TimestampFormat string `toml:"timestamp_format"`
	ShowTimestamp   bool   `toml:"show_timestamp"`
	ShowLevel       bool   `toml:"show_level"`

	// Stdout/console output
	EnableStdout bool   `toml:"enable_stdout"`
	StdoutTarget string `toml:"stdout_target"` // "stdout" or "stderr"
	StdoutLevel  string `toml:"stdout_level"`

	// Plain file
	FilePath        string `toml:"file_path"`
	FileTruncate    bool   `toml:"file_truncate"`
	FileProcessLock bool   `toml:"file_process_lock"`
	FileLevel       string `toml:"file_level"`

	// Numbered-ring rotating file
	RotateBase      string `toml:"rotate_base"`
	RotateExtension string `toml:"rotate_extension"`
	RotateMaxSizeKB int64  `toml:"rotate_max_size_kb"`
	RotateMaxFiles  int64  `toml:"rotate_max_files"`
	RotateCompress  bool   `toml:"rotate_compress"`
	RotateLevel     string `toml:"rotate_level"`

	// NATS publisher
	NATSURL     string `toml:"nats_url"`
	NATSSubject string `toml:"nats_subject"`
	NATSLevel   string `toml:"nats_level"`

	// Timestamped rotation
	LumberjackPath       string `toml:"lumberjack_path"`
	LumberjackMaxSizeMB  int64  `toml:"lumberjack_max_size_mb"`
	LumberjackMaxBackups int64  `toml:"lumberjack_max_backups"`
	LumberjackMaxAgeDays int64  `toml:"lumberjack_max_age_days"`
	LumberjackCompress   bool   `toml:"lumberjack_compress"`
	LumberjackLevel      string `toml:"lumberjack_level"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Sink failures to stderr, rate limited
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Name:       "fanlog",
	Level:      "info",
	FlushLevel: "off",
	SinkLock:   "mt",

	Format:          "txt",
	Pattern:         DefaultPattern,
	TimestampFormat: time.RFC3339Nano,
	ShowTimestamp:   true,
	ShowLevel:       true,

	EnableStdout: false,
	StdoutTarget: targetStdout,
	StdoutLevel:  "trace",

	FileLevel: "trace",

	RotateExtension: ".log",
	RotateMaxSizeKB: 10 * sizeMultiplier,
	RotateMaxFiles:  3,
	RotateLevel:     "trace",

	NATSSubject: "fanlog",
	NATSLevel:   "trace",

	LumberjackMaxSizeMB:  100,
	LumberjackMaxBackups: 0,
	LumberjackMaxAgeDays: 0,
	LumberjackLevel:      "trace",

	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// normalizePrefix turns "console" into "console."; empty stays empty
func normalizePrefix(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, ".") {
		return prefix
	}
	return prefix + "."
}

// NewConfigFromFile loads the section at prefix of a TOML file and returns a validated Config.
// A missing file yields the defaults.
func NewConfigFromFile(path, prefix string) (*Config, error) {
	cfg := DefaultConfig()
	prefix = normalizePrefix(prefix)

	loader := config.New()

	if err := loader.RegisterStruct(prefix, *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, prefix, cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by toml tag
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		switch v := value.(type) {
		case string:
			field.SetString(v)
		case Level:
			field.SetString(v.String())
		default:
			return fmt.Errorf("expected string, got %T", value)
		}

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// invalidConfig wraps ErrInvalidConfig with detail
func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalidConfig("logger name cannot be empty")
	}

	levels := []struct{ key, value string }{
		{"level", c.Level},
		{"flush_level", c.FlushLevel},
		{"stdout_level", c.StdoutLevel},
		{"file_level", c.FileLevel},
		{"rotate_level", c.RotateLevel},
		{"nats_level", c.NATSLevel},
		{"lumberjack_level", c.LumberjackLevel},
	}
	for _, lv := range levels {
		if _, err := ParseLevel(lv.value); err != nil {
			return invalidConfig("%s: %v", lv.key, err)
		}
	}

	if _, err := ParseLockMode(c.SinkLock); err != nil {
		return invalidConfig("sink_lock: %v", err)
	}

	if c.Format != "txt" && c.Format != "json" && c.Format != "raw" {
		return invalidConfig("invalid format: '%s' (use txt, json, or raw)", c.Format)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return invalidConfig("timestamp_format cannot be empty")
	}

	if c.StdoutTarget != targetStdout && c.StdoutTarget != targetStderr {
		return invalidConfig("invalid stdout_target: '%s' (use stdout or stderr)", c.StdoutTarget)
	}

	if c.RotateBase != "" {
		if c.RotateMaxSizeKB < minRotateSizeKB {
			return invalidConfig("rotate_max_size_kb must be at least %d: %d", minRotateSizeKB, c.RotateMaxSizeKB)
		}
		if c.RotateMaxFiles < 0 {
			return invalidConfig("rotate_max_files cannot be negative: %d", c.RotateMaxFiles)
		}
		if c.RotateExtension != "" && !strings.HasPrefix(c.RotateExtension, ".") {
			return invalidConfig("rotate_extension must start with a dot: %s", c.RotateExtension)
		}
	}

	if c.NATSURL != "" && strings.TrimSpace(c.NATSSubject) == "" {
		return invalidConfig("nats_subject cannot be empty when nats_url is set")
	}

	if c.LumberjackMaxSizeMB < 0 || c.LumberjackMaxBackups < 0 || c.LumberjackMaxAgeDays < 0 {
		return invalidConfig("lumberjack limits cannot be negative")
	}

	if c.FilePath != "" && c.FilePath == c.LumberjackPath {
		return invalidConfig("file_path and lumberjack_path must differ: %s", c.FilePath)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// newFormatter builds the formatter described by the config
func (c *Config) newFormatter() Formatter {
	f := formatter.New(sanitizer.New().Policy(sanitizer.PolicyPreset(c.Format))).
		Type(c.Format).
		TimestampFormat(c.TimestampFormat).
		ShowTimestamp(c.ShowTimestamp).
		ShowLevel(c.ShowLevel)
	if c.Format == "txt" && c.Pattern != "" {
		f.Pattern(c.Pattern)
	}
	return NewFormatter(f)
}

// mustLevel parses a level that validate already accepted
func mustLevel(s string) Level {
	level, _ := ParseLevel(s)
	return level
}

// NewLoggerFromConfig validates cfg and builds its logger and sinks.
// If any sink fails to open, the ones already opened are closed.
func NewLoggerFromConfig(cfg *Config) (*Logger, error) {
	if cfg == nil {
		return nil, fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mode, _ := ParseLockMode(cfg.SinkLock)
	sinks, err := cfg.newSinks(mode)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Name, sinks...)
	logger.SetLevel(mustLevel(cfg.Level))
	logger.FlushOn(mustLevel(cfg.FlushLevel))
	logger.SetFormatter(cfg.newFormatter())
	if !cfg.InternalErrorsToStderr {
		logger.SetErrorHandler(func(string, error) {})
	}
	return logger, nil
}

// newSinks opens every sink the config enables, in a fixed order
func (c *Config) newSinks(mode LockMode) (sinks []Sink, err error) {
	defer func() {
		if err != nil {
			for _, s := range sinks {
				_ = s.Close()
			}
			sinks = nil
		}
	}()

	add := func(s Sink, level string) {
		s.SetLevel(mustLevel(level))
		sinks = append(sinks, s)
	}

	if c.EnableStdout {
		if c.StdoutTarget == targetStderr {
			add(NewStderrSink(mode), c.StdoutLevel)
		} else {
			add(NewStdoutSink(mode), c.StdoutLevel)
		}
	}

	if c.FilePath != "" {
		s, err := NewFileSink(c.FilePath, FileSinkOptions{
			Truncate:    c.FileTruncate,
			ProcessLock: c.FileProcessLock,
			Mode:        mode,
		})
		if err != nil {
			return sinks, err
		}
		add(s, c.FileLevel)
	}

	if c.RotateBase != "" {
		s, err := NewRotatingFileSink(RotatingFileSinkOptions{
			BaseFilename: c.RotateBase,
			Extension:    c.RotateExtension,
			MaxSize:      c.RotateMaxSizeKB * sizeMultiplier,
			MaxFiles:     int(c.RotateMaxFiles),
			Compress:     c.RotateCompress,
			Mode:         mode,
		})
		if err != nil {
			return sinks, err
		}
		add(s, c.RotateLevel)
	}

	if c.NATSURL != "" {
		s, err := DialNATSSink(c.NATSURL, c.NATSSubject, mode)
		if err != nil {
			return sinks, err
		}
		add(s, c.NATSLevel)
	}

	if c.LumberjackPath != "" {
		s, err := NewLumberjackSink(LumberjackSinkOptions{
			Filename:   c.LumberjackPath,
			MaxSizeMB:  int(c.LumberjackMaxSizeMB),
			MaxBackups: int(c.LumberjackMaxBackups),
			MaxAgeDays: int(c.LumberjackMaxAgeDays),
			Compress:   c.LumberjackCompress,
			Mode:       mode,
		})
		if err != nil {
			return sinks, err
		}
		add(s, c.LumberjackLevel)
	}

	return sinks, nil
}

// LoadComposite builds one child logger per TOML section and joins them in a composite.
// Children are built in prefix order; on failure, children already built are closed.
func LoadComposite(path, name string, prefixes ...string) (*CompositeLogger, error) {
	if len(prefixes) == 0 {
		return nil, fmtErrorf("composite logger '%s': at least one config section is required", name)
	}

	children := make([]*Logger, 0, len(prefixes))
	closeAll := func() {
		for _, child := range children {
			_ = child.Close()
		}
	}

	for _, prefix := range prefixes {
		cfg, err := NewConfigFromFile(path, prefix)
		if err != nil {
			closeAll()
			return nil, fmtErrorf("composite logger '%s': section '%s': %w", name, prefix, err)
		}
		child, err := NewLoggerFromConfig(cfg)
		if err != nil {
			closeAll()
			return nil, fmtErrorf("composite logger '%s': section '%s': %w", name, prefix, err)
		}
		children = append(children, child)
	}

	return NewCompositeLogger(name, children...)
}
