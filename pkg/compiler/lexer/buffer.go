package lexer

import (
	"github.com/edwingeng/deque"
)

// TokenBuffer gives the parser bounded lookahead over a Scanner. Tokens are
// pulled on demand and never rescanned.
type TokenBuffer struct {
	scanner *Scanner
	queue   deque.Deque
	err     error
}

// NewTokenBuffer layers a lookahead queue over s.
func NewTokenBuffer(s *Scanner) *TokenBuffer {
	return &TokenBuffer{
		scanner: s,
		queue:   deque.NewDeque(),
	}
}

// LookAhead returns the n-th unconsumed token (1-indexed) without consuming
// it. Past the end of input it returns the EOF token. A lexing error is
// sticky: once hit, every later LookAhead that needs a new token returns it.
func (b *TokenBuffer) LookAhead(n int) (Token, error) {
	if n <= 0 {
		panic("lexer: LookAhead requires n >= 1")
	}
	for b.queue.Len() < n {
		if b.queue.Len() > 0 && b.queue.Back().(Token).Kind == KindEOF {
			return b.queue.Back().(Token), nil
		}
		if b.err != nil {
			return Token{}, b.err
		}
		tok, err := b.scanner.Next()
		if err != nil {
			b.err = err
			return Token{}, err
		}
		b.queue.PushBack(tok)
	}
	return b.queue.Peek(n - 1).(Token), nil
}

// Eat discards the first n buffered tokens. Eating the EOF token is harmless;
// the scanner keeps producing it.
func (b *TokenBuffer) Eat(n int) {
	if n <= 0 {
		panic("lexer: Eat requires n >= 1")
	}
	for i := 0; i < n && b.queue.Len() > 0; i++ {
		b.queue.PopFront()
	}
}

// Buffered reports how many tokens are pulled but not yet eaten.
func (b *TokenBuffer) Buffered() int {
	return b.queue.Len()
}
