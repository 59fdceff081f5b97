//go:build windows

package build

import "os"

// terminate kills the worker outright; Windows has no portable graceful
// termination signal for console-less child processes.
func terminate(p *os.Process) error {
	return p.Kill()
}
