package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// RunWithSpinner animates a spinner next to msg on stderr while fn runs,
// for operations with no line output of their own (manifest fetch,
// installer download). Non-interactive sessions skip the animation and
// just call fn. Ctrl+C cancels fn's context.
func RunWithSpinner(ctx context.Context, msg string, fn func(ctx context.Context) error) error {
	if IsNoInteraction() {
		return fn(ctx)
	}

	fnCtx, fnCancel := context.WithCancel(ctx)
	defer fnCancel()

	wait := &spinnerView{
		dot: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(AccentStyle),
		),
		msg: msg,
	}
	program := tea.NewProgram(wait,
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)

	result := make(chan error, 1)
	go func() {
		err := fn(fnCtx)
		result <- err
		program.Send(spinnerFinished{})
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	if wait.interrupted {
		fnCancel()
		return context.Canceled
	}
	return <-result
}

// spinnerFinished tells the view that fn returned.
type spinnerFinished struct{}

type spinnerView struct {
	dot spinner.Model
	msg string

	finished    bool
	interrupted bool
}

func (v *spinnerView) Init() tea.Cmd {
	return v.dot.Tick
}

func (v *spinnerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerFinished:
		v.finished = true
		return v, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		v.dot, cmd = v.dot.Update(msg)
		return v, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			v.interrupted = true
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *spinnerView) View() string {
	if v.finished || v.interrupted {
		return ""
	}
	return v.dot.View() + " " + v.msg + "\n"
}
