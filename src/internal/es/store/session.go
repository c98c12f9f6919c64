// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package esstore

// Session tracks the open state of one container across a resolve sequence.
// It performs no locking; the owner must serialize EnsureOpen, Lookup and
// Close against each other.
type Session struct {
	container Container
	open      bool
}

// NewSession creates a session over container. The container starts closed.
func NewSession(container Container) *Session {
	return &Session{container: container}
}

// EnsureOpen opens the underlying container unless it is already open.
// Repeated calls while open are no-ops.
func (s *Session) EnsureOpen() error {
	if s.open {
		return nil
	}

	if err := s.container.Open(); err != nil {
		return err
	}

	s.open = true
	return nil
}

// Open reports whether the session currently holds an open container.
func (s *Session) Open() bool { return s.open }

// Lookup resolves path inside the open container. It returns ErrNotOpen when
// EnsureOpen has not succeeded yet.
func (s *Session) Lookup(path string) (Entry, error) {
	if !s.open {
		return nil, ErrNotOpen
	}
	return s.container.Lookup(path)
}

// Close closes the underlying container. Closing an already closed session is
// a no-op; the first close error is returned and the session still transitions
// to closed so a wedged container cannot pin the session open.
func (s *Session) Close() error {
	if !s.open {
		return nil
	}

	s.open = false
	return s.container.Close()
}
