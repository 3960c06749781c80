package lexer

import (
	"fmt"
	"unicode"
)

// LexError reports a character that cannot start or continue any token.
type LexError struct {
	Char rune
	Row  int
	Col  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line:%d, column:%d, unexpected character %q", e.Row, e.Col, e.Char)
}

var punctuation = map[rune]Kind{
	'=': KindAssign,
	'+': KindAdd,
	'-': KindSub,
	'*': KindMul,
	'/': KindDiv,
	'%': KindMod,
	'^': KindPow,
	'(': KindLP,
	')': KindRP,
	'{': KindLBrace,
	'}': KindRBrace,
	',': KindComma,
}

// Scanner performs lexical analysis on freestyle source.
type Scanner struct {
	source   []rune
	cursor   int
	row      int
	col      int
	keywords KeywordTable
}

// NewScanner creates a new scanner for the given source using the built-in
// keyword table.
func NewScanner(source []byte) *Scanner {
	return NewScannerWithKeywords(source, nil)
}

// NewScannerWithKeywords creates a scanner that classifies words with kw.
// A nil table means DefaultKeywords.
func NewScannerWithKeywords(source []byte, kw KeywordTable) *Scanner {
	if kw == nil {
		kw = DefaultKeywords()
	}
	s := &Scanner{keywords: kw}
	s.Reset(source)
	return s
}

// Reset re-initializes the scanner with new source, keeping its keyword table.
func (s *Scanner) Reset(source []byte) {
	s.source = []rune(string(source))
	s.cursor = 0
	s.row = 1
	s.col = 1
}

// Next returns the next token from the source. Once the input is exhausted
// every call returns the same EOF token.
func (s *Scanner) Next() (Token, error) {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOF, Row: s.row, Col: s.col}, nil
	}

	ch := s.source[s.cursor]
	switch {
	case ch == '\n':
		tok := Token{Kind: KindNewline, Literal: "\n", Row: s.row, Col: s.col}
		s.cursor++
		s.row++
		s.col = 1
		return tok, nil
	case unicode.IsLetter(ch):
		tok := s.scanRun(KindSymbol, unicode.IsLetter)
		tok.Kind = s.keywords.Lookup(tok.Literal)
		return tok, nil
	case isDigit(ch):
		return s.scanRun(KindInteger, isDigit), nil
	}

	if kind, ok := punctuation[ch]; ok {
		tok := Token{Kind: kind, Literal: string(ch), Row: s.row, Col: s.col}
		s.advance()
		return tok, nil
	}
	return Token{}, &LexError{Char: ch, Row: s.row, Col: s.col}
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		if ch == '\n' || !unicode.IsSpace(ch) {
			return
		}
		s.advance()
	}
}

// scanRun consumes the maximal run of characters accepted by class.
func (s *Scanner) scanRun(kind Kind, class func(rune) bool) Token {
	start := s.cursor
	tok := Token{Kind: kind, Row: s.row, Col: s.col}
	for s.cursor < len(s.source) && class(s.source[s.cursor]) {
		s.advance()
	}
	tok.Literal = string(s.source[start:s.cursor])
	return tok
}

func (s *Scanner) advance() {
	s.cursor++
	s.col++
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize drains s, returning every token up to and including EOF.
func Tokenize(s *Scanner) ([]Token, error) {
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == KindEOF {
			return toks, nil
		}
	}
}
