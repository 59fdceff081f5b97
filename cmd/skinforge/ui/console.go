package ui

import (
	"fmt"
	"io"
	"sync"

	"skinforge"
)

// Console renders build events as styled terminal lines. It is safe for
// concurrent use; the build supervisor reports from both worker streams.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// NewConsole writes build output to w. With verbose=false routine log
// lines are suppressed and only progress and milestones are shown.
func NewConsole(w io.Writer, verbose bool) *Console {
	return &Console{w: w, verbose: verbose}
}

func (c *Console) TaskStarted(message string) error {
	return c.println(InfoMsg("%s", message))
}

func (c *Console) BuildLog(message string, level skinforge.LogLevel) error {
	switch level {
	case skinforge.LevelError:
		return c.println(ErrorStyle.Render(message))
	case skinforge.LevelWarning:
		return c.println(WarnStyle.Render(message))
	default:
		if !c.verbose {
			return nil
		}
		return c.println(Muted(message))
	}
}

func (c *Console) BuildProgress(current, total int, status string) error {
	counter := AccentStyle.Render(fmt.Sprintf("[%d/%d]", current, total))
	if status == "" {
		return c.println(counter)
	}
	return c.println(counter + " " + status)
}

func (c *Console) BuildComplete(success bool, exitCode int, message string) error {
	if success {
		return c.println(SuccessStyle.Render(message))
	}
	if err := c.println(ErrorStyle.Render(message)); err != nil {
		return err
	}
	return c.println(Muted(fmt.Sprintf("worker exit code: %d", exitCode)))
}

func (c *Console) println(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, line)
	return err
}
