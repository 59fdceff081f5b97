package build

import (
	"os"
	"sync"
)

// handleSlot is the single shared cell holding the live worker process.
// At most one occupant exists per supervisor; put and take are the only
// operations and both are bounded critical sections. The lock is never
// held across a blocking wait.
type handleSlot struct {
	mu   sync.Mutex
	proc *os.Process
}

// put publishes a freshly spawned process. It reports false if the slot is
// already occupied, which means a second concurrent run was attempted.
func (s *handleSlot) put(p *os.Process) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != nil {
		return false
	}
	s.proc = p
	return true
}

// take removes and returns the occupant, or nil if the slot is empty.
func (s *handleSlot) take() *os.Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.proc
	s.proc = nil
	return p
}

// occupied reports whether a live handle is present.
func (s *handleSlot) occupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc != nil
}
