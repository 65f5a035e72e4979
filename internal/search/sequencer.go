// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "sync/atomic"

// Token identifies one user-initiated search or browse action. Tokens are
// totally ordered; a larger token was issued later.
type Token uint64

// Sequencer issues tokens and reports whether a token is still the most
// recently issued one. The zero value is ready to use; the first token is 1.
// It is safe for concurrent use.
type Sequencer struct {
	current atomic.Uint64
}

// Next issues a new token and makes it current. Once Next returns, no
// earlier token can become current again.
func (s *Sequencer) Next() Token {
	return Token(s.current.Add(1))
}

// IsCurrent reports whether t is the most recently issued token.
func (s *Sequencer) IsCurrent(t Token) bool {
	return t != 0 && Token(s.current.Load()) == t
}

// Current returns the most recently issued token, or 0 before the first Next.
func (s *Sequencer) Current() Token {
	return Token(s.current.Load())
}
