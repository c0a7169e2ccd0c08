package lexer

import (
	"errors"
	"sync"
)

// ErrStreamClosed is returned when writing to or closing a stream whose
// production has already finished.
var ErrStreamClosed = errors.New("token stream: production already finished")

// TokenStream is an append-only token buffer with a read cursor. A producer
// writes tokens and calls Close when done; a consumer reads and seeks,
// blocking until the requested token exists or production has finished.
// Tokens before the cursor are never returned by Read again.
type TokenStream struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tokens []Token
	pos    int
	closed bool
}

// NewTokenStream creates an empty, open stream.
func NewTokenStream() *TokenStream {
	ts := &TokenStream{}
	ts.cond = sync.NewCond(&ts.mu)
	return ts
}

// Write appends a token and wakes any waiting reader.
func (ts *TokenStream) Write(tok Token) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return ErrStreamClosed
	}
	ts.tokens = append(ts.tokens, tok)
	ts.cond.Broadcast()
	return nil
}

// Close signals end of production.
func (ts *TokenStream) Close() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.closed {
		return ErrStreamClosed
	}
	ts.closed = true
	ts.cond.Broadcast()
	return nil
}

// Closed reports whether production has finished.
func (ts *TokenStream) Closed() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.closed
}

// waitFor blocks until index is produced or production has finished.
// The caller must hold ts.mu.
func (ts *TokenStream) waitFor(index int) bool {
	for index >= len(ts.tokens) && !ts.closed {
		ts.cond.Wait()
	}
	return index < len(ts.tokens)
}

// Read consumes the token under the cursor. It returns false once the
// stream is closed and every token has been read.
func (ts *TokenStream) Read() (Token, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if !ts.waitFor(ts.pos) {
		return Token{}, false
	}
	tok := ts.tokens[ts.pos]
	ts.pos++
	return tok, true
}

// Seek returns the token offset positions past the cursor without
// consuming it. Seeking beyond the produced tokens waits for the producer
// and returns false only after production has finished.
func (ts *TokenStream) Seek(offset int) (Token, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	index := ts.pos + offset
	if index < ts.pos {
		return Token{}, false
	}
	if !ts.waitFor(index) {
		return Token{}, false
	}
	return ts.tokens[index], true
}

// Exhausted reports whether production has finished and every token has
// been read. It does not block.
func (ts *TokenStream) Exhausted() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.closed && ts.pos >= len(ts.tokens)
}

// Position returns the cursor index.
func (ts *TokenStream) Position() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.pos
}

// Len returns the number of tokens produced so far.
func (ts *TokenStream) Len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.tokens)
}

// Tokens returns a copy of every token produced so far, read or not.
func (ts *TokenStream) Tokens() []Token {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]Token, len(ts.tokens))
	copy(out, ts.tokens)
	return out
}
