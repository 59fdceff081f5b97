package skinforge

// TaskConfig describes one build request against the worker backend.
// Immutable once built; only SkinPath is validated (non-blank).
type TaskConfig struct {
	SkinPath    string
	BundlesPath string
	DebugExport bool
	DryRun      bool
}

// LogLevel classifies a single line of worker output.
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// CompletionResult is the final report of a finished run. It is produced
// exactly once, after the worker has exited and both output streams are
// fully drained. A cancelled run produces no CompletionResult.
type CompletionResult struct {
	Success  bool
	ExitCode int
	Message  string
	Stdout   string
	Stderr   string
}
