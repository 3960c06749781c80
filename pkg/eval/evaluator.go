package eval

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"fortio.org/log"

	"github.com/numbaa/learn-plt/pkg/compiler/ast"
	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
	"github.com/numbaa/learn-plt/pkg/core/value"
)

// DefaultMaxCallDepth bounds nested calls when Options.MaxCallDepth is 0.
// Function bodies have no conditionals, so any recursion is unbounded.
const DefaultMaxCallDepth = 256

// Options tunes an Evaluator.
type Options struct {
	MaxCallDepth int
	// DisableCalls makes every call fail with ErrCallsUnsupported.
	DisableCalls bool
}

// Frame is the activation record of one function call.
type Frame struct {
	Func   string
	Call   lexer.Token
	Locals *value.NameTable
}

// Evaluator walks a syntax tree, printing one line per executed print
// statement. Its tables persist across Execute calls until Reset.
type Evaluator struct {
	out      io.Writer
	maxDepth int
	noCalls  bool

	globals *value.NameTable
	funcs   map[string]*ast.Node
	frames  []*Frame
}

// New returns an evaluator writing program output to out.
func New(out io.Writer, opts Options) *Evaluator {
	depth := opts.MaxCallDepth
	if depth <= 0 {
		depth = DefaultMaxCallDepth
	}
	return &Evaluator{
		out:      out,
		maxDepth: depth,
		noCalls:  opts.DisableCalls,
		globals:  value.NewNameTable(),
		funcs:    make(map[string]*ast.Node),
	}
}

// Reset clears all bindings and declared functions.
func (e *Evaluator) Reset() {
	e.globals.Reset()
	e.funcs = make(map[string]*ast.Node)
	e.frames = e.frames[:0]
}

// Globals returns a copy of the global name table.
func (e *Evaluator) Globals() map[string]int64 {
	return e.globals.Snapshot()
}

// GlobalNames returns the global variable names in sorted order.
func (e *Evaluator) GlobalNames() []string {
	return e.globals.Names()
}

// Functions returns the declared function names in sorted order.
func (e *Evaluator) Functions() []string {
	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the top-level statements of root in order and stops at the
// first error. Output of statements before the failing one has already been
// written.
func (e *Evaluator) Execute(root *ast.Node) error {
	if root.Type != ast.Root {
		return malformed(root, "expected Root")
	}
	for _, stmt := range root.Children {
		if err := e.execStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execStatement(n *ast.Node) error {
	log.LogVf("exec %s at %d:%d", n.Type, n.Token.Row, n.Token.Col)

	switch n.Type {
	case ast.Print:
		v, err := e.evalExpression(n.Child(0))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(e.out, strconv.FormatInt(v, 10)); err != nil {
			return fmt.Errorf("eval: write output: %w", err)
		}
		return nil

	case ast.Assign:
		name := n.Child(0)
		if name == nil || name.Type != ast.Name {
			return malformed(n, "assignment without target")
		}
		v, err := e.evalExpression(n.Child(1))
		if err != nil {
			return err
		}
		e.scope().Set(name.Literal(), v)
		return nil

	case ast.FuncDecl:
		if len(n.Children) != 2 {
			return malformed(n, "function declaration arity")
		}
		// Redeclaring a name replaces the earlier function.
		e.funcs[n.Literal()] = n
		return nil

	default:
		return malformed(n, "unexpected "+n.Type.String()+" statement")
	}
}

func (e *Evaluator) evalExpression(n *ast.Node) (int64, error) {
	if n == nil {
		return 0, &EvalError{Kind: ErrMalformedTree, Detail: "missing expression"}
	}

	switch n.Type {
	case ast.Integer:
		v, err := strconv.ParseInt(n.Literal(), 10, 64)
		if err != nil {
			return 0, errorAt(n, ErrInvalidInteger, n.Literal())
		}
		return v, nil

	case ast.Name:
		return e.lookup(n)

	case ast.Add, ast.Mul, ast.Pow:
		return e.evalBinary(n)

	case ast.FuncCall:
		return e.call(n)

	default:
		return 0, malformed(n, "unexpected "+n.Type.String()+" expression")
	}
}

func (e *Evaluator) evalBinary(n *ast.Node) (int64, error) {
	if len(n.Children) != 2 {
		return 0, malformed(n, "binary operator arity")
	}
	l, err := e.evalExpression(n.Children[0])
	if err != nil {
		return 0, err
	}
	r, err := e.evalExpression(n.Children[1])
	if err != nil {
		return 0, err
	}

	switch n.Token.Kind {
	case lexer.KindAdd:
		return l + r, nil
	case lexer.KindSub:
		return l - r, nil
	case lexer.KindMod:
		if r == 0 {
			return 0, errorAt(n, ErrDivisionByZero, "")
		}
		return l % r, nil
	case lexer.KindMul:
		return l * r, nil
	case lexer.KindDiv:
		if r == 0 {
			return 0, errorAt(n, ErrDivisionByZero, "")
		}
		return l / r, nil
	case lexer.KindPow:
		if r < 0 {
			return 0, errorAt(n, ErrNegativeExponent, strconv.FormatInt(r, 10))
		}
		return ipow(l, r), nil
	}
	return 0, malformed(n, "operator "+n.Token.Kind.String())
}

// ipow computes base^exp with wrapping multiplication by squaring; the
// result equals exp repeated multiplications.
func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// scope is the table assignments write to: the innermost frame, or globals.
func (e *Evaluator) scope() *value.NameTable {
	if len(e.frames) > 0 {
		return e.frames[len(e.frames)-1].Locals
	}
	return e.globals
}

// lookup resolves a name against the innermost frame, then globals.
func (e *Evaluator) lookup(n *ast.Node) (int64, error) {
	name := n.Literal()
	if len(e.frames) > 0 {
		if v, ok := e.frames[len(e.frames)-1].Locals.Get(name); ok {
			return v.Value, nil
		}
	}
	if v, ok := e.globals.Get(name); ok {
		return v.Value, nil
	}
	return 0, errorAt(n, ErrVariableNotFound, name)
}

func (e *Evaluator) call(n *ast.Node) (int64, error) {
	name := n.Literal()
	if e.noCalls {
		return 0, errorAt(n, ErrCallsUnsupported, name)
	}
	decl, ok := e.funcs[name]
	if !ok {
		return 0, errorAt(n, ErrFunctionNotFound, name)
	}

	params := decl.Child(0)
	body := decl.Child(1)
	args := n.Child(0)
	if params == nil || body == nil || args == nil {
		return 0, malformed(n, "call or declaration shape")
	}
	if len(args.Children) != len(params.Children) {
		return 0, errorAt(n, ErrArityMismatch,
			fmt.Sprintf("%s expects %d, got %d", name, len(params.Children), len(args.Children)))
	}
	if len(e.frames) >= e.maxDepth {
		return 0, errorAt(n, ErrCallDepthExceeded, fmt.Sprintf("%s at depth %d", name, len(e.frames)))
	}

	// Arguments are read in the caller's scope before the frame is pushed.
	frame := &Frame{Func: name, Call: n.Token, Locals: value.NewNameTable()}
	for i, arg := range args.Children {
		v, err := e.lookup(arg)
		if err != nil {
			return 0, err
		}
		frame.Locals.Set(params.Children[i].Literal(), v)
	}

	log.LogVf("call %s depth=%d args=%v", name, len(e.frames)+1, frame.Locals.Snapshot())
	e.frames = append(e.frames, frame)
	defer func() { e.frames = e.frames[:len(e.frames)-1] }()

	for _, stmt := range body.Children {
		if stmt.Type == ast.Return {
			v, err := e.evalExpression(stmt.Child(0))
			if err != nil {
				return 0, err
			}
			log.LogVf("return %s = %d", name, v)
			return v, nil
		}
		if err := e.execStatement(stmt); err != nil {
			return 0, err
		}
	}
	return 0, malformed(body, "function "+name+" has no return")
}

func errorAt(n *ast.Node, kind error, detail string) *EvalError {
	return &EvalError{Kind: kind, Row: n.Token.Row, Col: n.Token.Col, Detail: detail}
}

func malformed(n *ast.Node, detail string) *EvalError {
	return errorAt(n, ErrMalformedTree, detail)
}
