//go:build debug

package check

// Assert panics if cond is false. Compiled in only for debug builds; use
// it for programmer-error invariants, never for runtime conditions.
func Assert(cond bool, msg string) {
	if !cond {
		panic("assertion failed: " + msg)
	}
}
