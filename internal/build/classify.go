package build

import (
	"strings"

	"skinforge"
)

// ClassifyLine maps a line of worker output to a log level using a
// case-insensitive substring scan. Error markers win over warning markers;
// everything else, including DEBUG lines, is info.
func ClassifyLine(line string) skinforge.LogLevel {
	upper := strings.ToUpper(line)

	switch {
	case strings.Contains(upper, "ERROR"),
		strings.Contains(upper, "CRITICAL"),
		strings.Contains(upper, "✗"):
		return skinforge.LevelError
	case strings.Contains(upper, "WARN"):
		// Covers both "WARN" and "WARNING".
		return skinforge.LevelWarning
	default:
		return skinforge.LevelInfo
	}
}
