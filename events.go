package skinforge

// Sink receives build lifecycle events from a supervised run.
//
// TaskStarted and BuildComplete are milestone events: they bracket the run
// and a failed delivery aborts it. BuildLog and BuildProgress are routine
// per-line events; delivery is best-effort and a failed emit is dropped.
type Sink interface {
	// TaskStarted is emitted exactly once, before the worker is spawned.
	TaskStarted(message string) error

	// BuildLog is emitted for every line read from either output stream,
	// and for fatal run conditions while the sink is still reachable.
	BuildLog(message string, level LogLevel) error

	// BuildProgress is emitted for a line matching a progress pattern with
	// a non-zero total, before that line's BuildLog event.
	BuildProgress(current, total int, status string) error

	// BuildComplete is emitted exactly once for a run that ran to
	// completion, after both streams are drained.
	BuildComplete(success bool, exitCode int, message string) error
}
