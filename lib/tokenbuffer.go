package lib

import (
	"errors"
	"sync"
	"time"
)

const TOKEN_BUF_SIZE = 100

var TokenReadTimeout = 1 * time.Second

var ErrTokenReadTimeout = errors.New("timed out waiting for next token")

type peekResult struct {
	tok  Token
	done bool
	err  error
}

// TokenBuffer hands tokens from a producing goroutine to a single consumer.
type TokenBuffer struct {
	tokChan   chan Token
	stopChan  chan struct{}
	stopOnce  sync.Once
	peeked    *peekResult
	exhausted bool
}

func newTokenBuffer() *TokenBuffer {
	return &TokenBuffer{
		tokChan:  make(chan Token, TOKEN_BUF_SIZE),
		stopChan: make(chan struct{}),
	}
}

// Stream lexes src on a separate goroutine and returns a buffer to read the
// tokens from. Call Close when abandoning the stream before it is done.
func Stream(src string, opts ...LexerOption) *TokenBuffer {
	buffer := newTokenBuffer()
	go (func() {
		defer buffer.Done()
		l := NewLexer(src, opts...)
		for {
			tok, ok := l.Next()
			if !ok || !buffer.Write(tok) {
				return
			}
		}
	})()
	return buffer
}

func (tb *TokenBuffer) Next() (tok Token, done bool, err error) {
	if tb.peeked != nil {
		res := tb.peeked
		tb.peeked = nil
		return res.tok, res.done, res.err
	}

	if tb.exhausted {
		return Token{}, true, nil
	}

	select {
	case tok, ok := <-tb.tokChan:
		if !ok {
			tb.exhausted = true
			return Token{}, true, nil
		}
		return tok, false, nil
	case <-time.After(TokenReadTimeout):
		return Token{}, false, ErrTokenReadTimeout
	}
}

func (tb *TokenBuffer) Peek() (Token, bool, error) {
	if tb.peeked != nil {
		return tb.peeked.tok, tb.peeked.done, tb.peeked.err
	}
	tok, done, err := tb.Next()
	tb.peeked = &peekResult{tok: tok, done: done, err: err}
	return tok, done, err
}

// Write queues a token. It reports false when the consumer has closed the
// buffer.
func (tb *TokenBuffer) Write(tok Token) bool {
	select {
	case tb.tokChan <- tok:
		return true
	case <-tb.stopChan:
		return false
	}
}

// Done marks the end of the stream. It must be called exactly once, by the
// producer.
func (tb *TokenBuffer) Done() {
	close(tb.tokChan)
}

// Close releases a producer blocked on a full buffer.
func (tb *TokenBuffer) Close() {
	tb.stopOnce.Do(func() {
		close(tb.stopChan)
	})
}
