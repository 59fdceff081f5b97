package build

import (
	"strconv"
	"strings"
)

// ProgressMatch is a progress reading extracted from a single output line.
type ProgressMatch struct {
	Current int
	Total   int
	Status  string
}

const bundleMarker = "=== Processing bundle"

// progressRules are evaluated in priority order; the first match wins.
// The marker rule recognizes the worker's own bundle counter; the generic
// rule picks up any "<N> of <M>" token triple and can false-positive on
// unrelated text, which is accepted.
var progressRules = []func(line string) (ProgressMatch, bool){
	matchBundleMarker,
	matchGenericOf,
}

// ParseProgress extracts (current, total, status) from a line, reporting
// whether any rule matched. Callers must discard matches with Total == 0
// before deriving a progress ratio.
func ParseProgress(line string) (ProgressMatch, bool) {
	for _, rule := range progressRules {
		if m, ok := rule(line); ok {
			return m, true
		}
	}
	return ProgressMatch{}, false
}

// matchBundleMarker handles "=== Processing bundle <N> of <M>: <name>".
func matchBundleMarker(line string) (ProgressMatch, bool) {
	if !strings.Contains(line, bundleMarker) {
		return ProgressMatch{}, false
	}

	parts := strings.Fields(line)
	for i := 0; i+3 < len(parts); i++ {
		if parts[i] != "bundle" || parts[i+2] != "of" {
			continue
		}
		current, err := parseCount(parts[i+1])
		if err != nil {
			continue
		}
		total, err := parseCount(strings.TrimSuffix(parts[i+3], ":"))
		if err != nil {
			continue
		}

		status := "Processing bundle"
		if i+4 < len(parts) {
			status += " " + strings.Join(parts[i+4:], " ")
		}
		return ProgressMatch{Current: current, Total: total, Status: status}, true
	}
	return ProgressMatch{}, false
}

// matchGenericOf handles any "<N> of <M>" triple anywhere in the line.
func matchGenericOf(line string) (ProgressMatch, bool) {
	if !strings.Contains(line, " of ") {
		return ProgressMatch{}, false
	}

	words := strings.Fields(line)
	for i := 0; i+2 < len(words); i++ {
		if words[i+1] != "of" {
			continue
		}
		current, err := parseCount(words[i])
		if err != nil {
			continue
		}
		total, err := parseCount(words[i+2])
		if err != nil {
			continue
		}

		status, _, _ := strings.Cut(line, "===")
		return ProgressMatch{Current: current, Total: total, Status: strings.TrimSpace(status)}, true
	}
	return ProgressMatch{}, false
}

func parseCount(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return int(n), err
}
