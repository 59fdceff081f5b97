package build

import "testing"

func TestCompletionMessage(t *testing.T) {
	cases := []struct {
		success  bool
		dryRun   bool
		exitCode int
		want     string
	}{
		{true, true, 0, "✓ Preview completed successfully. No bundles were modified during this dry run."},
		{true, false, 0, "✓ Build completed successfully. All bundles have been created."},
		{false, true, 3, "✗ Preview failed with exit code 3. Check the logs for details."},
		{false, false, 2, "✗ Build failed with exit code 2. Check the logs for details."},
		{false, false, -1, "✗ Build failed with exit code -1. Check the logs for details."},
	}

	for _, tc := range cases {
		got := completionMessage(tc.success, tc.exitCode, tc.dryRun)
		if got != tc.want {
			t.Errorf("completionMessage(%v, %d, %v) = %q, want %q",
				tc.success, tc.exitCode, tc.dryRun, got, tc.want)
		}
	}
}
