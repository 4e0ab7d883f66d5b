package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/fanlog"
)

const configFile = "simple_config.toml"
const configBasePath = "logging" // Base path for log settings in config

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[logging]
  name = "simple"
  level = "debug"
  flush_level = "error"
  format = "txt"
  enable_stdout = true
  stdout_level = "warn"
  rotate_base = "./simple_logs/simple"
  rotate_extension = ".log"
  rotate_max_size_kb = 100
  rotate_max_files = 2
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := fanlog.NewConfigFromFile(configFile, configBasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// --- Initialize Logger ---
	logger, err := fanlog.NewLoggerFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// --- Logging ---
	logger.Debug("This is a debug message.", "user_id", 123)
	logger.Info("Application starting...")
	logger.Warn("Potential issue detected.", "threshold", 0.95)
	logger.Error("An error occurred!", "code", 500)

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logger.Infof("Goroutine %d finished", id)
		}(i)
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Close Logger ---
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger close error: %v\n", err)
	} else {
		fmt.Println("Logger closed.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in './simple_logs' and the config '%s'.\n", configFile)
}
