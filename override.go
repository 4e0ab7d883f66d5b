// FILE: override.go
package fanlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies "key=value" overrides to the config in place.
// All overrides are attempted; failures are reported together and the
// config is validated only when every override parsed.
//
// Example:
//
//	cfg := fanlog.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "rotate_base=/var/log/app",
//	    "level=debug",
//	    "format=json",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(c, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return c.validate()
}

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("fanlog: multiple configuration errors:")
	for i, err := range errs {
		errMsg := strings.TrimPrefix(err.Error(), "fanlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.TrimPrefix(sb.String(), "fanlog: "))
}

// levelField parses a level value and stores its canonical name
func levelField(dst *string, key, value string) error {
	level, err := ParseLevel(value)
	if err != nil {
		return fmtErrorf("invalid level value for %s '%s': %w", key, value, err)
	}
	*dst = level.String()
	return nil
}

func boolField(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}

func intField(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Basic settings
	case "name":
		cfg.Name = value
	case "level":
		return levelField(&cfg.Level, key, value)
	case "flush_level":
		return levelField(&cfg.FlushLevel, key, value)
	case "sink_lock":
		if _, err := ParseLockMode(value); err != nil {
			return err
		}
		cfg.SinkLock = value

	// Formatting
	case "format":
		cfg.Format = value
	case "pattern":
		cfg.Pattern = value
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "show_timestamp":
		return boolField(&cfg.ShowTimestamp, key, value)
	case "show_level":
		return boolField(&cfg.ShowLevel, key, value)

	// Stdout/console output
	case "enable_stdout":
		return boolField(&cfg.EnableStdout, key, value)
	case "stdout_target":
		cfg.StdoutTarget = value
	case "stdout_level":
		return levelField(&cfg.StdoutLevel, key, value)

	// Plain file
	case "file_path":
		cfg.FilePath = value
	case "file_truncate":
		return boolField(&cfg.FileTruncate, key, value)
	case "file_process_lock":
		return boolField(&cfg.FileProcessLock, key, value)
	case "file_level":
		return levelField(&cfg.FileLevel, key, value)

	// Rotating file
	case "rotate_base":
		cfg.RotateBase = value
	case "rotate_extension":
		cfg.RotateExtension = value
	case "rotate_max_size_kb":
		return intField(&cfg.RotateMaxSizeKB, key, value)
	case "rotate_max_size_mb":
		var mb int64
		if err := intField(&mb, key, value); err != nil {
			return err
		}
		cfg.RotateMaxSizeKB = mb * sizeMultiplier
	case "rotate_max_files":
		return intField(&cfg.RotateMaxFiles, key, value)
	case "rotate_compress":
		return boolField(&cfg.RotateCompress, key, value)
	case "rotate_level":
		return levelField(&cfg.RotateLevel, key, value)

	// NATS
	case "nats_url":
		cfg.NATSURL = value
	case "nats_subject":
		cfg.NATSSubject = value
	case "nats_level":
		return levelField(&cfg.NATSLevel, key, value)

	// Lumberjack
	case "lumberjack_path":
		cfg.LumberjackPath = value
	case "lumberjack_max_size_mb":
		return intField(&cfg.LumberjackMaxSizeMB, key, value)
	case "lumberjack_max_backups":
		return intField(&cfg.LumberjackMaxBackups, key, value)
	case "lumberjack_max_age_days":
		return intField(&cfg.LumberjackMaxAgeDays, key, value)
	case "lumberjack_compress":
		return boolField(&cfg.LumberjackCompress, key, value)
	case "lumberjack_level":
		return levelField(&cfg.LumberjackLevel, key, value)

	// Internal error handling
	case "internal_errors_to_stderr":
		return boolField(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
