package ui

import "testing"

func TestEnvTruthy(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{" on ", true},
		{"", false},
		{"0", false},
		{"false", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		t.Setenv("SKINFORGE_TEST_TRUTHY", tt.value)
		if got := envTruthy("SKINFORGE_TEST_TRUTHY"); got != tt.want {
			t.Errorf("envTruthy(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestDetectInteractiveMode(t *testing.T) {
	t.Setenv(envNoInteraction, "")
	t.Setenv(envCI, "")
	t.Setenv(envTerm, "xterm-256color")

	if detectInteractiveMode(true) {
		t.Error("forced noInteraction should never be interactive")
	}

	t.Setenv(envCI, "true")
	if detectInteractiveMode(false) {
		t.Error("CI environment should not be interactive")
	}

	t.Setenv(envCI, "")
	t.Setenv(envTerm, "dumb")
	if detectInteractiveMode(false) {
		t.Error("dumb terminal should not be interactive")
	}
}
