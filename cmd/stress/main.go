package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/fanlog"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 10000
	numWorkers     = 500
)

const configFile = "stress_config.toml"

// Example TOML content for stress test: one section per composite child
var tomlContent = `
# Example stress_config.toml
[ring]
  name = "ring"
  level = "debug"
  format = "txt"
  rotate_base = "./logs/stress"
  rotate_extension = ".log"
  rotate_max_size_kb = 1000 # Force frequent rotation
  rotate_max_files = 5
  rotate_level = "info"

[archive]
  name = "archive"
  level = "warn"
  format = "json"
  lumberjack_path = "./logs/archive.log"
  lumberjack_max_size_mb = 1
  lumberjack_max_backups = 3
  lumberjack_compress = true
`

var levels = []fanlog.Level{
	fanlog.LevelDebug,
	fanlog.LevelInfo,
	fanlog.LevelWarn,
	fanlog.LevelError,
}

var logger *fanlog.CompositeLogger

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msgSize := rand.Intn(maxMessageSize) + 10
		logger.Log(level,
			generateRandomMessage(msgSize),
			"wkr", burstID%numWorkers,
			"bst", burstID,
			"seq", i,
			"rnd", rand.Int63(),
		)
	}
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed", completed, totalBursts)
		}
	}
}

func main() {
	fmt.Println("--- Logger Stress Test ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created dummy config file: %s\n", configFile)
	logsDir := "./logs"       // Match config
	_ = os.RemoveAll(logsDir) // Clean previous run's LOGS directory before starting

	// --- Initialize Logger ---
	logger, err = fanlog.LoadComposite(configFile, "stress", "ring", "archive")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logger initialized. Logs will be written to: %s\n", logsDir)

	var failures atomic.Int64
	logger.SetErrorHandler(func(name string, err error) {
		if failures.Add(1) == 1 {
			fmt.Fprintf(os.Stderr, "\n[%s] first delivery failure: %v\n", name, err)
		}
	})

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Check log directory size and file rotation.")
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}

	// --- Run Test ---
	startTime := time.Now()
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			goto endLoop
		}
	}
endLoop:
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	duration := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v\n", finalCompleted, totalBursts, duration.Round(time.Millisecond))
	if finalCompleted > 0 && duration.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / duration.Seconds()
		fmt.Printf("Approximate Logs/sec: %.2f\n", logsPerSec)
	}
	fmt.Printf("Delivery failures: %d\n", failures.Load())

	// --- Close Children ---
	if err := logger.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Flush error: %v\n", err)
	}
	for _, child := range logger.Loggers() {
		if s, ok := child.Sinks()[0].(*fanlog.RotatingFileSink); ok {
			stats := s.Stats()
			fmt.Printf("Ring: %d records, %d rotations\n", stats.RecordsWritten, stats.Rotations)
		}
		if err := child.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Close error for '%s': %v\n", child.Name(), err)
		}
	}

	fmt.Printf("Check log files in '%s' and the config '%s'.\n", logsDir, configFile)
}
