// FILE: examples/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/fanlog"
	"github.com/lixenwraith/fanlog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Console for warnings, rotating file for everything
	logger, err := fanlog.NewBuilder().
		Name("fasthttp").
		LevelString("trace").
		EnableStdout(true).
		StdoutLevel(fanlog.LevelWarn).
		Rotating("/var/log/fasthttp/server", ".log", 10*1000, 5).
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(fanlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) (fanlog.Level, bool) {
	// Can inspect specific fasthttp message patterns
	if strings.Contains(msg, "connection cannot be served") {
		return fanlog.LevelWarn, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return fanlog.LevelError, true
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
