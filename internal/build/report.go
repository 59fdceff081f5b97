package build

import (
	"fmt"
	"os"
	"strings"

	"skinforge"
)

// buildReport composes the final CompletionResult from the worker's exit
// state and the two drained line lists. ExitCode is -1 when the OS gives
// no numeric code (terminated by signal).
func buildReport(state *os.ProcessState, stdoutLines, stderrLines []string, dryRun bool) skinforge.CompletionResult {
	return skinforge.CompletionResult{
		Success:  state.Success(),
		ExitCode: state.ExitCode(),
		Message:  completionMessage(state.Success(), state.ExitCode(), dryRun),
		Stdout:   strings.Join(stdoutLines, "\n"),
		Stderr:   strings.Join(stderrLines, "\n"),
	}
}

func completionMessage(success bool, exitCode int, dryRun bool) string {
	switch {
	case success && dryRun:
		return "✓ Preview completed successfully. No bundles were modified during this dry run."
	case success:
		return "✓ Build completed successfully. All bundles have been created."
	case dryRun:
		return fmt.Sprintf("✗ Preview failed with exit code %d. Check the logs for details.", exitCode)
	default:
		return fmt.Sprintf("✗ Build failed with exit code %d. Check the logs for details.", exitCode)
	}
}
