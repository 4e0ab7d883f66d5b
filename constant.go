// FILE: lixenwraith/fanlog/constant.go
package fanlog

// DefaultPattern is the txt layout of a logger that was not given a formatter
const DefaultPattern = "[%Y-%m-%d %H:%M:%S.%e] [%n] [%l] %v"

// Config sizes
const (
	// Size multiplier for KB, MB
	sizeMultiplier = 1000
	// Lower bound on a configured rotating file size
	minRotateSizeKB int64 = 1
)

// Stdout targets
const (
	targetStdout = "stdout"
	targetStderr = "stderr"
)
