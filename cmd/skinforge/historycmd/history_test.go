package historycmd

import (
	"testing"

	"skinforge"
	"skinforge/internal/history"
)

func TestShortID(t *testing.T) {
	if got := shortID("0b5e8d1c-aaaa-bbbb-cccc-ddddeeeeffff"); got != "0b5e8d1c" {
		t.Errorf("shortID = %q, want 0b5e8d1c", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID of short input = %q, want abc", got)
	}
}

func TestMode(t *testing.T) {
	run := history.Run{}
	if got := mode(run); got != "build" {
		t.Errorf("mode(plain) = %q, want build", got)
	}

	run.Config = skinforge.TaskConfig{DryRun: true}
	if got := mode(run); got != "dry-run" {
		t.Errorf("mode(dry-run) = %q", got)
	}

	run.Config = skinforge.TaskConfig{DryRun: true, DebugExport: true}
	if got := mode(run); got != "dry-run+debug" {
		t.Errorf("mode(dry-run+debug) = %q", got)
	}
}
