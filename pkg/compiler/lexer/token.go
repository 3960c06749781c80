package lexer

import "fmt"

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOF Kind = iota
	KindNewline
	KindSymbol
	KindInteger
	KindAssign   // =
	KindAdd      // +
	KindSub      // -
	KindMul      // *
	KindDiv      // /
	KindMod      // %
	KindPow      // ^
	KindLP       // (
	KindRP       // )
	KindLBrace   // {
	KindRBrace   // }
	KindComma    // ,
	KindPrint    // print
	KindFuncDecl // func
	KindReturn   // return
	KindWhile    // while
)

var kindNames = [...]string{
	KindEOF:      "EOF",
	KindNewline:  "Newline",
	KindSymbol:   "Symbol",
	KindInteger:  "Integer",
	KindAssign:   "Assign",
	KindAdd:      "Add",
	KindSub:      "Sub",
	KindMul:      "Mul",
	KindDiv:      "Div",
	KindMod:      "Mod",
	KindPow:      "Pow",
	KindLP:       "LP",
	KindRP:       "RP",
	KindLBrace:   "LBrace",
	KindRBrace:   "RBrace",
	KindComma:    "Comma",
	KindPrint:    "Print",
	KindFuncDecl: "FuncDecl",
	KindReturn:   "Return",
	KindWhile:    "While",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token represents a lexical unit with the position of its first character.
// Row and Col are 1-based; Col counts characters, not bytes.
type Token struct {
	Kind    Kind
	Literal string
	Row     int
	Col     int
}

// Display returns the literal as it should appear in diagnostics.
func (t Token) Display() string {
	switch t.Kind {
	case KindEOF:
		return "EOF"
	case KindNewline:
		return "newline"
	}
	return t.Literal
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Row, t.Col, t.Kind, t.Literal)
}
