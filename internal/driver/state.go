package driver

import (
	"sync"

	"github.com/jamielinux/pyright-polite/internal/platform"
)

// badJSONCode is the exit code after pyright produced malformed JSON.
const badJSONCode = 2

// State is the exit-code bookkeeping shared by the signal bridge and the
// lifecycle controller. The zero value is not usable; see newState.
type State struct {
	mu        sync.Mutex
	plat      platform.Platform
	code      int
	claimed   bool
	signalled bool
}

func newState(plat platform.Platform) *State {
	return &State{plat: plat}
}

// SetReturnCode stores code unless the platform cannot represent it.
// It reports whether the code was stored.
func (s *State) SetReturnCode(code int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(code)
}

func (s *State) setLocked(code int) bool {
	if !s.plat.AcceptsCode(code) {
		return false
	}
	s.code = code
	return true
}

// Signal records a received signal. Its code wins over everything else.
func (s *State) Signal(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(code)
	s.signalled = true
	s.claimed = true
}

// ClaimBadJSON claims the malformed-JSON exit code. It returns false, and
// changes nothing, when a signal already decided the outcome.
func (s *State) ClaimBadJSON() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signalled {
		return false
	}
	s.code = badJSONCode
	s.claimed = true
	return true
}

// Signalled reports whether a watched signal was received.
func (s *State) Signalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signalled
}

// Claimed reports whether a signal or a validation failure set the code.
func (s *State) Claimed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimed
}

// ReturnCode returns the current code.
func (s *State) ReturnCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.code
}

// Finish folds in the child's exit code unless something claimed the result.
// An unknown child code leaves the state untouched.
func (s *State) Finish(child int, known bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claimed && known {
		s.setLocked(child)
	}
	return s.code
}

// FinishUnfiltered is Finish for a child that owned the terminal: only a
// positive child code is passed through, anything else becomes 0.
func (s *State) FinishUnfiltered(child int, known bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claimed {
		s.code = 0
		if known && child > 0 {
			s.code = child
		}
	}
	return s.code
}
