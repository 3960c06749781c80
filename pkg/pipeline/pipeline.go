// Package pipeline runs source text through the scanner, parser and
// evaluator.
package pipeline

import (
	"errors"
	"io"

	"github.com/numbaa/learn-plt/pkg/compiler/ast"
	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
	"github.com/numbaa/learn-plt/pkg/compiler/parser"
	"github.com/numbaa/learn-plt/pkg/eval"
)

// Options configures a run. A nil Keywords uses lexer.DefaultKeywords.
type Options struct {
	Keywords lexer.KeywordTable
	Eval     eval.Options
}

// Run executes src with a fresh evaluator, writing print output to out. The
// returned error is the first *lexer.LexError, *parser.SyntaxError or
// *eval.EvalError encountered; output of earlier statements has been written.
func Run(src []byte, out io.Writer, opts Options) error {
	return NewSession(out, opts).Run(src)
}

// Tokens scans src completely. On a lex error the tokens before it are
// returned as well.
func Tokens(src []byte, kw lexer.KeywordTable) ([]lexer.Token, error) {
	return lexer.Tokenize(lexer.NewScannerWithKeywords(src, kw))
}

// Parse returns the syntax tree of src.
func Parse(src []byte, kw lexer.KeywordTable) (*ast.Node, error) {
	return parser.NewParser(lexer.NewScannerWithKeywords(src, kw)).Parse()
}

// Session keeps one evaluator across several runs, so names and functions
// defined by one chunk of source are visible to the next.
type Session struct {
	keywords lexer.KeywordTable
	eval     *eval.Evaluator
}

func NewSession(out io.Writer, opts Options) *Session {
	return &Session{keywords: opts.Keywords, eval: eval.New(out, opts.Eval)}
}

// Run parses src in full before executing any of it.
func (s *Session) Run(src []byte) error {
	root, err := Parse(src, s.keywords)
	if err != nil {
		return err
	}
	return s.eval.Execute(root)
}

func (s *Session) Evaluator() *eval.Evaluator {
	return s.eval
}

// Incomplete reports whether err is a syntax error at end of input, meaning
// more source could still complete the program.
func Incomplete(err error) bool {
	var se *parser.SyntaxError
	return errors.As(err, &se) && se.FoundKind == lexer.KindEOF
}
