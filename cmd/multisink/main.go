// FILE: cmd/multisink/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lixenwraith/fanlog"
)

const logDirectory = "./multisink_logs"

func main() {
	if err := os.MkdirAll(logDirectory, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- Composite Logger ---")
	if err := runComposite(); err != nil {
		fmt.Fprintf(os.Stderr, "Composite example failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n--- Single Logger, Multiple Sinks ---")
	if err := runMultiSink(); err != nil {
		fmt.Fprintf(os.Stderr, "Multi-sink example failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nCheck '%s' for the log files.\n", logDirectory)
}

// runComposite joins three independently configured loggers.
// Each child keeps its own level and sinks; the composite only fans out.
func runComposite() error {
	console := fanlog.NewLogger("console", fanlog.NewStdoutSink(fanlog.MultiThreaded))
	console.SetLevel(fanlog.LevelWarn)

	regular, err := fanlog.NewBuilder().
		Name("file").
		LevelString("info").
		Rotating(filepath.Join(logDirectory, "regular"), ".log", 5*1000, 3).
		Build()
	if err != nil {
		return err
	}
	defer regular.Close()

	debug, err := fanlog.NewBuilder().
		Name("debug").
		LevelString("debug").
		FlushOn(fanlog.LevelError).
		File(filepath.Join(logDirectory, "debug.log"), fanlog.LevelTrace).
		Build()
	if err != nil {
		return err
	}
	defer debug.Close()

	multi, err := fanlog.NewCompositeLogger("multi", console, regular, debug)
	if err != nil {
		return err
	}
	multi.SetPattern("[%Y-%m-%d %H:%M:%S.%e] [%n] [%l] %v")

	for i := 0; i < 10; i++ {
		multi.Debugf("debug message %d", i)
		multi.Infof("info message %d", i)
	}
	multi.Warn("warning reaches every child")
	multi.Error("error reaches every child")

	return multi.Flush()
}

// runMultiSink gives one logger a console sink and a file sink with separate thresholds
func runMultiSink() error {
	consoleSink := fanlog.NewStdoutSink(fanlog.MultiThreaded)
	consoleSink.SetLevel(fanlog.LevelWarn)

	fileSink, err := fanlog.NewFileSink(filepath.Join(logDirectory, "multisink.log"), fanlog.FileSinkOptions{Truncate: true})
	if err != nil {
		return err
	}
	fileSink.SetLevel(fanlog.LevelTrace)

	logger := fanlog.NewLogger("multi_sink", consoleSink, fileSink)
	logger.SetLevel(fanlog.LevelDebug)
	defer logger.Close()

	logger.Warn("this should appear in both console and file")
	logger.Info("this message should appear in the file only")
	logger.Trace("this message is filtered by the logger")
	return logger.Flush()
}
