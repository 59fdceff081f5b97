// Package worker locates the fm_skin_builder backend and prepares its
// environment contract: FM_CACHE_DIR always points at a usable cache
// directory, and development trees run the Python module directly instead
// of a packaged binary.
package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"skinforge/internal/build"
)

const (
	// backendModule is the worker's Python module name, also used as
	// PYTHONPATH in development mode.
	backendModule = "fm_skin_builder"
	// cacheEnv carries the cache-directory override to the worker.
	cacheEnv = "FM_CACHE_DIR"
)

// Locator resolves the worker invocation. It implements build.Resolver.
type Locator struct {
	// CacheDir is exported to the worker via FM_CACHE_DIR; created when
	// missing.
	CacheDir string
	// Workspace is a development checkout root. When non-empty the worker
	// runs as "python -m fm_skin_builder" out of the workspace instead of
	// a packaged binary.
	Workspace string
}

// Resolve returns the worker command for the current installation mode.
// A packaged backend that does not exist on disk is an error here, before
// any spawn is attempted.
func (l Locator) Resolve() (build.WorkerCommand, error) {
	if l.CacheDir == "" {
		return build.WorkerCommand{}, fmt.Errorf("resolve worker: cache directory not set")
	}
	if err := os.MkdirAll(l.CacheDir, 0o755); err != nil {
		return build.WorkerCommand{}, fmt.Errorf("create cache dir: %w", err)
	}
	env := []string{cacheEnv + "=" + l.CacheDir}

	if l.Workspace != "" {
		python := devInterpreter(l.Workspace, runtime.GOOS, fileExists)
		return build.WorkerCommand{
			Path: python,
			Args: []string{"-m", backendModule},
			Dir:  l.Workspace,
			Env:  append(env, "PYTHONPATH="+backendModule),
		}, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return build.WorkerCommand{}, fmt.Errorf("locate own executable: %w", err)
	}
	backend := packagedBinary(filepath.Dir(exe), runtime.GOOS)
	if !fileExists(backend) {
		return build.WorkerCommand{}, fmt.Errorf("backend binary not found at %s", backend)
	}
	return build.WorkerCommand{Path: backend, Env: env}, nil
}

// devInterpreter picks the workspace venv interpreter, falling back to the
// system Python on PATH when no venv exists.
func devInterpreter(workspace, goos string, exists func(string) bool) string {
	unixVenv := filepath.Join(workspace, ".venv", "bin", "python3")
	if exists(unixVenv) {
		return unixVenv
	}
	winVenv := filepath.Join(workspace, ".venv", "Scripts", "python.exe")
	if exists(winVenv) {
		return winVenv
	}
	if goos == "windows" {
		return "python.exe"
	}
	return "python3"
}

// packagedBinary is the backend location inside an installed distribution,
// relative to the skinforge executable.
func packagedBinary(exeDir, goos string) string {
	name := backendModule
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join(exeDir, "resources", "backend", name)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
