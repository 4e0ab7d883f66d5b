// FILE: lixenwraith/fanlog/config_test.go
package fanlog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "off", cfg.FlushLevel)
	assert.Equal(t, "fanlog", cfg.Name)
	assert.Equal(t, "txt", cfg.Format)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.Equal(t, ".log", cfg.RotateExtension)
	assert.True(t, cfg.ShowTimestamp)
	assert.True(t, cfg.ShowLevel)
	assert.True(t, cfg.InternalErrorsToStderr)
	assert.Equal(t, time.RFC3339Nano, cfg.TimestampFormat)
	assert.NoError(t, cfg.validate())

	cfg.Name = "changed"
	assert.Equal(t, "fanlog", DefaultConfig().Name, "defaults are copied")
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Level = "debug"
	cfg1.RotateBase = "/custom/path"

	cfg2 := cfg1.Clone()

	assert.Equal(t, cfg1.Level, cfg2.Level)
	assert.Equal(t, cfg1.RotateBase, cfg2.RotateBase)

	cfg1.Level = "error"
	assert.Equal(t, "debug", cfg2.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:      "empty name",
			modify:    func(c *Config) { c.Name = " " },
			wantError: "logger name cannot be empty",
		},
		{
			name:      "invalid level",
			modify:    func(c *Config) { c.Level = "loud" },
			wantError: "level",
		},
		{
			name:      "invalid sink level",
			modify:    func(c *Config) { c.RotateLevel = "nope" },
			wantError: "rotate_level",
		},
		{
			name:      "invalid format",
			modify:    func(c *Config) { c.Format = "xml" },
			wantError: "invalid format",
		},
		{
			name:      "invalid lock mode",
			modify:    func(c *Config) { c.SinkLock = "both" },
			wantError: "sink_lock",
		},
		{
			name:      "invalid stdout target",
			modify:    func(c *Config) { c.StdoutTarget = "printer" },
			wantError: "invalid stdout_target",
		},
		{
			name: "rotate size too small",
			modify: func(c *Config) {
				c.RotateBase = "app"
				c.RotateMaxSizeKB = 0
			},
			wantError: "rotate_max_size_kb",
		},
		{
			name: "negative rotate files",
			modify: func(c *Config) {
				c.RotateBase = "app"
				c.RotateMaxFiles = -1
			},
			wantError: "rotate_max_files",
		},
		{
			name: "extension without dot",
			modify: func(c *Config) {
				c.RotateBase = "app"
				c.RotateExtension = "log"
			},
			wantError: "rotate_extension must start with a dot",
		},
		{
			name: "nats without subject",
			modify: func(c *Config) {
				c.NATSURL = "nats://localhost:4222"
				c.NATSSubject = ""
			},
			wantError: "nats_subject",
		},
		{
			name: "shared file path",
			modify: func(c *Config) {
				c.FilePath = "same.log"
				c.LumberjackPath = "same.log"
			},
			wantError: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.validate()

			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestNewConfigFromDefaults(t *testing.T) {
	cfg, err := NewConfigFromDefaults(map[string]any{
		"name":             "svc",
		"level":            LevelDebug,
		"rotate_base":      "logs/svc",
		"rotate_max_files": 5,
		"enable_stdout":    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, int64(5), cfg.RotateMaxFiles)
	assert.True(t, cfg.EnableStdout)

	_, err = NewConfigFromDefaults(map[string]any{"no_such_key": 1})
	assert.ErrorContains(t, err, "unknown config key")

	_, err = NewConfigFromDefaults(map[string]any{"enable_stdout": "yes"})
	assert.ErrorContains(t, err, "expected bool")

	_, err = NewConfigFromDefaults(map[string]any{"format": "xml"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyOverride(t *testing.T) {
	t.Run("applies every field kind", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride(
			"level=warning",
			"show_level=false",
			"rotate_base=/tmp/app",
			"rotate_max_size_mb=2",
			"nats_level=E",
		)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Level, "levels are stored by canonical name")
		assert.False(t, cfg.ShowLevel)
		assert.Equal(t, "/tmp/app", cfg.RotateBase)
		assert.Equal(t, int64(2000), cfg.RotateMaxSizeKB)
		assert.Equal(t, "error", cfg.NATSLevel)
	})

	t.Run("collects every failure", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("level=loud", "novalue", "bogus=1", "rotate_max_files=x")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "multiple configuration errors")
		assert.Contains(t, err.Error(), "4. ")
	})

	t.Run("validates the result", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("stdout_target=printer")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

const compositeTOML = `
[console]
name = "console"
level = "warn"
enable_stdout = true
stdout_target = "stderr"

[file]
name = "file"
level = "trace"
format = "json"
file_path = "%s"
file_truncate = true

[broken]
name = "broken"
format = "xml"
`

func writeCompositeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "file.log")
	cfgPath := filepath.Join(dir, "fanlog.toml")
	content := []byte(fmt.Sprintf(compositeTOML, filepath.ToSlash(logPath)))
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath, logPath
}

func TestNewConfigFromFile(t *testing.T) {
	cfgPath, logPath := writeCompositeConfig(t)

	console, err := NewConfigFromFile(cfgPath, "console")
	require.NoError(t, err)
	assert.Equal(t, "console", console.Name)
	assert.Equal(t, "warn", console.Level)
	assert.True(t, console.EnableStdout)
	assert.Equal(t, "stderr", console.StdoutTarget)
	assert.Equal(t, "txt", console.Format, "unset keys keep defaults")

	file, err := NewConfigFromFile(cfgPath, "file.")
	require.NoError(t, err)
	assert.Equal(t, "json", file.Format)
	assert.Equal(t, logPath, filepath.FromSlash(file.FilePath))
	assert.True(t, file.FileTruncate)

	_, err = NewConfigFromFile(cfgPath, "broken")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	missing, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"), "console")
	require.NoError(t, err, "a missing file yields the defaults")
	assert.Equal(t, "fanlog", missing.Name)
	assert.Equal(t, "info", missing.Level)
	assert.Equal(t, int64(3), missing.RotateMaxFiles)
}

func TestNewLoggerFromConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewLoggerFromConfig(nil)
		assert.Error(t, err)
	})

	t.Run("builds sinks in order with their levels", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.Name = "built"
		cfg.Level = "debug"
		cfg.FlushLevel = "error"
		cfg.FilePath = filepath.Join(dir, "plain.log")
		cfg.FileLevel = "warn"
		cfg.RotateBase = filepath.Join(dir, "ring")
		cfg.LumberjackPath = filepath.Join(dir, "lj.log")
		cfg.InternalErrorsToStderr = false

		l, err := NewLoggerFromConfig(cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = l.Close() })

		assert.Equal(t, "built", l.Name())
		assert.Equal(t, LevelDebug, l.Level())
		assert.Equal(t, LevelError, l.FlushLevel())

		sinks := l.Sinks()
		require.Len(t, sinks, 3)
		assert.IsType(t, &FileSink{}, sinks[0])
		assert.IsType(t, &RotatingFileSink{}, sinks[1])
		assert.IsType(t, &LumberjackSink{}, sinks[2])
		assert.Equal(t, LevelWarn, sinks[0].Level())
		assert.Equal(t, LevelTrace, sinks[1].Level())

		l.Info("ring only")
		l.Error("everywhere")
		require.NoError(t, l.Flush())

		plain, err := os.ReadFile(cfg.FilePath)
		require.NoError(t, err)
		assert.NotContains(t, string(plain), "ring only")
		assert.Contains(t, string(plain), "everywhere")

		ring, err := os.ReadFile(CalcFilename(cfg.RotateBase, 0, cfg.RotateExtension))
		require.NoError(t, err)
		assert.Contains(t, string(ring), "ring only")
	})

	t.Run("closes opened sinks on failure", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		cfg := DefaultConfig()
		cfg.FilePath = filepath.Join(dir, "first.log")
		cfg.FileProcessLock = true
		cfg.RotateBase = filepath.Join(blocker, "ring")

		l, err := NewLoggerFromConfig(cfg)
		require.Error(t, err)
		assert.Nil(t, l)
		assert.Contains(t, err.Error(), cfg.RotateBase)

		// The plain file sink was closed, so its lock is free for a new owner
		s, err := NewFileSink(cfg.FilePath, FileSinkOptions{ProcessLock: true})
		require.NoError(t, err)
		require.NoError(t, s.Log(formattedRecord(LevelInfo, "reopened")))
		require.NoError(t, s.Close())
	})
}

func TestLoadComposite(t *testing.T) {
	cfgPath, logPath := writeCompositeConfig(t)

	t.Run("one child per section", func(t *testing.T) {
		c, err := LoadComposite(cfgPath, "multi", "console", "file")
		require.NoError(t, err)
		t.Cleanup(func() {
			for _, child := range c.Loggers() {
				_ = child.Close()
			}
		})

		require.Equal(t, 2, c.Len())
		assert.Equal(t, "console", c.At(0).Name())
		assert.Equal(t, LevelWarn, c.At(0).Level())
		assert.Equal(t, "file", c.At(1).Name())

		c.Debug("debug reaches file only")
		require.NoError(t, c.Flush())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"logger":"file"`)
		assert.Contains(t, string(data), "debug reaches file only")
	})

	t.Run("failing section closes built children", func(t *testing.T) {
		c, err := LoadComposite(cfgPath, "multi", "file", "broken")
		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "section 'broken'")
	})

	t.Run("requires sections", func(t *testing.T) {
		_, err := LoadComposite(cfgPath, "multi")
		assert.Error(t, err)
	})
}
