package storage

import (
	"sync"
	"time"
)

// InputKind names the free-text answer a chat is expected to send next.
type InputKind string

const (
	InputBaseline InputKind = "baseline" // daily count during onboarding
	InputRestart  InputKind = "restart"  // new daily count for a restart
	InputSymptoms InputKind = "symptoms" // optional symptoms after onboarding
)

type PendingInput struct {
	Kind     InputKind
	Baseline int // set once the onboarding baseline is known
	Since    time.Time
}

// PendingInputs tracks which text answer each user is expected to send.
type PendingInputs struct {
	mu     sync.RWMutex
	inputs map[int64]PendingInput
	ttl    time.Duration
}

// NewPendingInputs creates the store. Entries older than ttl are ignored;
// a zero ttl keeps them until cleared.
func NewPendingInputs(ttl time.Duration) *PendingInputs {
	return &PendingInputs{
		inputs: make(map[int64]PendingInput),
		ttl:    ttl,
	}
}

func (s *PendingInputs) Expect(userID int64, kind InputKind) {
	s.Set(userID, PendingInput{Kind: kind, Since: time.Now()})
}

func (s *PendingInputs) Set(userID int64, in PendingInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.Since.IsZero() {
		in.Since = time.Now()
	}
	s.inputs[userID] = in
}

func (s *PendingInputs) Get(userID int64) (PendingInput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.inputs[userID]
	if !ok {
		return PendingInput{}, false
	}
	if s.ttl > 0 && time.Since(in.Since) > s.ttl {
		return PendingInput{}, false
	}
	return in, true
}

func (s *PendingInputs) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inputs, userID)
}
