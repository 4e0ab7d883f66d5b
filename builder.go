// FILE: lixenwraith/fanlog/builder.go
package fanlog

// Builder provides a fluent API for building a logger from a Config.
// The first error is kept and reported by Build.
type Builder struct {
	cfg *Config
	err error
}

// NewBuilder creates a new configuration builder with default values
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build validates the configuration and creates the logger with its sinks
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewLoggerFromConfig(b.cfg)
}

// Config returns a copy of the configuration built so far
func (b *Builder) Config() *Config {
	return b.cfg.Clone()
}

// Name sets the logger name
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Level sets the logger threshold
func (b *Builder) Level(level Level) *Builder {
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the logger threshold from a string
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if err := levelField(&b.cfg.Level, "level", level); err != nil {
		b.err = err
	}
	return b
}

// FlushOn sets the automatic flush threshold
func (b *Builder) FlushOn(level Level) *Builder {
	b.cfg.FlushLevel = level.String()
	return b
}

// SinkLock selects the sinks' in-process lock policy
func (b *Builder) SinkLock(mode LockMode) *Builder {
	if mode == SingleThreaded {
		b.cfg.SinkLock = "st"
	} else {
		b.cfg.SinkLock = "mt"
	}
	return b
}

// Format sets the output format
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// Pattern sets the txt pattern
func (b *Builder) Pattern(pattern string) *Builder {
	b.cfg.Pattern = pattern
	return b
}

// TimestampFormat sets the timestamp layout
func (b *Builder) TimestampFormat(format string) *Builder {
	b.cfg.TimestampFormat = format
	return b
}

// EnableStdout adds a console sink
func (b *Builder) EnableStdout(enable bool) *Builder {
	b.cfg.EnableStdout = enable
	return b
}

// StdoutLevel sets the console sink threshold
func (b *Builder) StdoutLevel(level Level) *Builder {
	b.cfg.StdoutLevel = level.String()
	return b
}

// StdoutTarget sets "stdout" or "stderr"
func (b *Builder) StdoutTarget(target string) *Builder {
	b.cfg.StdoutTarget = target
	return b
}

// File adds a plain file sink at path
func (b *Builder) File(path string, level Level) *Builder {
	b.cfg.FilePath = path
	b.cfg.FileLevel = level.String()
	return b
}

// FileProcessLock guards the plain file sink with a lock file
func (b *Builder) FileProcessLock(enable bool) *Builder {
	b.cfg.FileProcessLock = enable
	return b
}

// Rotating adds a numbered-ring rotating file sink
func (b *Builder) Rotating(base, ext string, maxSizeKB int64, maxFiles int64) *Builder {
	b.cfg.RotateBase = base
	b.cfg.RotateExtension = ext
	b.cfg.RotateMaxSizeKB = maxSizeKB
	b.cfg.RotateMaxFiles = maxFiles
	return b
}

// RotateLevel sets the rotating file sink threshold
func (b *Builder) RotateLevel(level Level) *Builder {
	b.cfg.RotateLevel = level.String()
	return b
}

// RotateCompress writes rotating files as zstd streams
func (b *Builder) RotateCompress(enable bool) *Builder {
	b.cfg.RotateCompress = enable
	return b
}

// NATS adds a sink publishing to subject on the server at url
func (b *Builder) NATS(url, subject string) *Builder {
	b.cfg.NATSURL = url
	b.cfg.NATSSubject = subject
	return b
}

// Lumberjack adds a timestamped rotating sink
func (b *Builder) Lumberjack(path string, maxSizeMB, maxBackups, maxAgeDays int64) *Builder {
	b.cfg.LumberjackPath = path
	b.cfg.LumberjackMaxSizeMB = maxSizeMB
	b.cfg.LumberjackMaxBackups = maxBackups
	b.cfg.LumberjackMaxAgeDays = maxAgeDays
	return b
}

// Override applies "key=value" strings; the first failure is kept
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err == nil {
			err = applyConfigField(b.cfg, key, value)
		}
		if err != nil {
			b.err = err
			return b
		}
	}
	return b
}

// Example usage:
// logger, err := fanlog.NewBuilder().
//
//	Name("app").
//	LevelString("debug").
//	EnableStdout(true).
//	StdoutLevel(fanlog.LevelWarn).
//	Rotating("/var/log/app", ".log", 5000, 3).
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 logger.Info("Logger initialized successfully")
//
// }
