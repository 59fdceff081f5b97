package build

// WorkerCommand is a resolved invocation of the worker backend: the
// executable plus everything that comes before the task arguments.
type WorkerCommand struct {
	// Path is the executable to spawn.
	Path string
	// Args are arguments placed before the task's CLI arguments
	// (e.g. "-m fm_skin_builder" when running through an interpreter).
	Args []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Env are extra KEY=VALUE entries appended to the inherited environment.
	Env []string
}

// Resolver locates the worker backend. Implementations decide between a
// development-tree interpreter and a packaged binary; a backend that cannot
// be found surfaces as a spawn error before any process starts.
type Resolver interface {
	Resolve() (WorkerCommand, error)
}
