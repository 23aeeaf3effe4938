package quote

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded marks a quote whose request was overtaken by a newer one
// before it resolved. The caller must discard the result.
var ErrSuperseded = errors.New("quote superseded")

// Session enforces the request-superseding discipline for quote
// recomputation: every new input invalidates prior in-flight requests, and
// only the most recently initiated request may publish its result. Results
// of superseded requests are discarded even if they resolve later.
type Session struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSession() *Session {
	return &Session{}
}

// Begin registers a new quote request. The returned context is cancelled as
// soon as a newer request begins. The returned latest func reports whether
// this request is still the freshest one; callers must check it before
// applying a resolved quote.
func (s *Session) Begin(parent context.Context) (context.Context, func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.seq++
	token := s.seq

	latest := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.seq == token
	}
	return ctx, latest
}

// Reset cancels any in-flight request without starting a new one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
