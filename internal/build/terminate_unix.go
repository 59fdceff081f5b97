//go:build unix

package build

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminate asks the worker to exit gracefully so it can clean up partial
// bundle exports. Cancel escalates to a hard kill after the grace period.
func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
