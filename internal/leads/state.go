package leads

import "sync"

// State is the lifecycle of one contact form submission.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Submission tracks the state of a single form instance.
//
//	idle    -> loading   submit
//	loading -> success   post accepted and lead logged (terminal)
//	loading -> error     post or log failed
//	error   -> loading   retry
type Submission struct {
	mu        sync.Mutex
	state     State
	err       error
	observers []func(from, to State)
}

// NewSubmission returns a submission in the idle state.
func NewSubmission() *Submission {
	return &Submission{state: StateIdle}
}

// State returns the current state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure that put the submission into the error state.
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// OnTransition registers fn to be called after every state change.
func (s *Submission) OnTransition(fn func(from, to State)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Submission) begin() error {
	s.mu.Lock()
	switch s.state {
	case StateLoading:
		s.mu.Unlock()
		return ErrSubmissionInFlight
	case StateSuccess:
		s.mu.Unlock()
		return ErrSubmissionComplete
	}
	s.err = nil
	s.transitionLocked(StateLoading)
	return nil
}

func (s *Submission) succeed() {
	s.mu.Lock()
	s.transitionLocked(StateSuccess)
}

func (s *Submission) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.transitionLocked(StateError)
}

// transitionLocked changes state and notifies observers after unlocking.
func (s *Submission) transitionLocked(to State) {
	from := s.state
	s.state = to
	observers := append([]func(from, to State){}, s.observers...)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(from, to)
	}
}
