package parser

import (
	"fmt"

	"fortio.org/log"

	"github.com/numbaa/learn-plt/pkg/compiler/ast"
	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
)

// SyntaxError reports the first token that does not fit the grammar.
type SyntaxError struct {
	Row      int
	Col      int
	Expected string
	Found    string
	// FoundKind is the kind of the offending token; KindEOF means the
	// input ended early.
	FoundKind lexer.Kind
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line:%d, column:%d, syntax error, expect %s, found '%s'", e.Row, e.Col, e.Expected, e.Found)
}

func unexpected(tok lexer.Token, expected string) error {
	return &SyntaxError{Row: tok.Row, Col: tok.Col, Expected: expected, Found: tok.Display(), FoundKind: tok.Kind}
}

// Parser is a recursive-descent parser driven by a TokenBuffer.
type Parser struct {
	tokens *lexer.TokenBuffer
}

func NewParser(s *lexer.Scanner) *Parser {
	return &Parser{tokens: lexer.NewTokenBuffer(s)}
}

// Parse consumes the whole token stream and returns the Root node.
func (p *Parser) Parse() (*ast.Node, error) {
	root := ast.New(ast.Root, lexer.Token{})

	for {
		tok, err := p.tokens.LookAhead(1)
		if err != nil {
			return nil, err
		}

		var stmt *ast.Node
		switch tok.Kind {
		case lexer.KindPrint:
			stmt, err = p.parsePrint()
		case lexer.KindSymbol:
			stmt, err = p.parseAssign()
		case lexer.KindFuncDecl:
			stmt, err = p.parseFuncDecl()
		case lexer.KindNewline:
			p.tokens.Eat(1)
			continue
		case lexer.KindEOF:
			return root, nil
		default:
			return nil, unexpected(tok, "'print', 'func' or variable")
		}
		if err != nil {
			return nil, err
		}
		log.Debugf("parsed %s at %d:%d (%d tokens buffered)", stmt.Type, tok.Row, tok.Col, p.tokens.Buffered())
		root.Add(stmt)
	}
}

// next consumes and returns one token.
func (p *Parser) next() (lexer.Token, error) {
	tok, err := p.tokens.LookAhead(1)
	if err != nil {
		return tok, err
	}
	p.tokens.Eat(1)
	return tok, nil
}

// expect consumes one token and checks its kind.
func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Kind != kind {
		return tok, unexpected(tok, what)
	}
	return tok, nil
}

// print_stmt := 'print' expression
func (p *Parser) parsePrint() (*ast.Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Print, tok).Add(expr), nil
}

// assign_stmt := Symbol '=' expression
func (p *Parser) parseAssign() (*ast.Node, error) {
	name, err := p.next()
	if err != nil {
		return nil, err
	}
	assign, err := p.expect(lexer.KindAssign, "'='")
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.Assign, assign).Add(ast.New(ast.Name, name)).Add(expr), nil
}

// func_decl := 'func' Symbol param_list func_body
func (p *Parser) parseFuncDecl() (*ast.Node, error) {
	p.tokens.Eat(1) // func
	name, err := p.expect(lexer.KindSymbol, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseSymbolList(ast.ParamList, ast.Param, "parameter")
	if err != nil {
		return nil, err
	}
	body, err := p.parseFuncBody()
	if err != nil {
		return nil, err
	}
	return ast.New(ast.FuncDecl, name).Add(params).Add(body), nil
}

// parseSymbolList reads '(' Symbol (',' Symbol)* ')' into a list node.
// Parameter lists and call argument lists share this shape.
func (p *Parser) parseSymbolList(list, item ast.NodeType, what string) (*ast.Node, error) {
	lp, err := p.expect(lexer.KindLP, "'('")
	if err != nil {
		return nil, err
	}
	node := ast.New(list, lp)
	for {
		sym, err := p.expect(lexer.KindSymbol, what)
		if err != nil {
			return nil, err
		}
		node.Add(ast.New(item, sym))

		sep, err := p.next()
		if err != nil {
			return nil, err
		}
		switch sep.Kind {
		case lexer.KindComma:
		case lexer.KindRP:
			return node, nil
		default:
			return nil, unexpected(sep, "',' or ')'")
		}
	}
}

// func_body := '{' (print_stmt | assign_stmt | Newline)* 'return' expression [Newline* '}']
func (p *Parser) parseFuncBody() (*ast.Node, error) {
	lb, err := p.expect(lexer.KindLBrace, "'{'")
	if err != nil {
		return nil, err
	}
	body := ast.New(ast.FuncBody, lb)

	for {
		tok, err := p.tokens.LookAhead(1)
		if err != nil {
			return nil, err
		}

		var stmt *ast.Node
		switch tok.Kind {
		case lexer.KindPrint:
			stmt, err = p.parsePrint()
		case lexer.KindSymbol:
			stmt, err = p.parseAssign()
		case lexer.KindNewline:
			p.tokens.Eat(1)
			continue
		case lexer.KindReturn:
			p.tokens.Eat(1)
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			body.Add(ast.New(ast.Return, tok).Add(expr))
			if err := p.closeBody(); err != nil {
				return nil, err
			}
			return body, nil
		default:
			return nil, unexpected(tok, "'print', 'return' or variable")
		}
		if err != nil {
			return nil, err
		}
		body.Add(stmt)
	}
}

// closeBody consumes an optional '}' after the return expression, along
// with the newlines before it. Without a brace nothing is consumed and the
// body ends at the return expression.
func (p *Parser) closeBody() error {
	for k := 1; ; k++ {
		tok, err := p.tokens.LookAhead(k)
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.KindNewline:
			continue
		case lexer.KindRBrace:
			p.tokens.Eat(k)
		}
		return nil
	}
}

func (p *Parser) parseExpression() (*ast.Node, error) {
	return p.parseAdd()
}

// add_expr := mul_expr (('+' | '-' | '%') mul_expr)*
func (p *Parser) parseAdd() (*ast.Node, error) {
	return p.parseLeftAssoc(ast.Add, p.parseMul, lexer.KindAdd, lexer.KindSub, lexer.KindMod)
}

// mul_expr := pow_expr (('*' | '/') pow_expr)*
func (p *Parser) parseMul() (*ast.Node, error) {
	return p.parseLeftAssoc(ast.Mul, p.parsePow, lexer.KindMul, lexer.KindDiv)
}

// pow_expr := atom ('^' atom)*
func (p *Parser) parsePow() (*ast.Node, error) {
	return p.parseLeftAssoc(ast.Pow, p.parseAtom, lexer.KindPow)
}

// parseLeftAssoc folds operand (op operand)* to the left, so a-b-c groups
// as (a-b)-c. The same holds for '^'.
func (p *Parser) parseLeftAssoc(t ast.NodeType, operand func() (*ast.Node, error), ops ...lexer.Kind) (*ast.Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, err := p.tokens.LookAhead(1)
		if err != nil {
			return nil, err
		}
		if !isOneOf(op.Kind, ops) {
			return left, nil
		}
		p.tokens.Eat(1)
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = ast.Binary(t, op, left, right)
	}
}

// atom := Integer | Symbol | func_call
func (p *Parser) parseAtom() (*ast.Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.KindInteger:
		return ast.New(ast.Integer, tok), nil
	case lexer.KindSymbol:
		la, err := p.tokens.LookAhead(1)
		if err != nil {
			return nil, err
		}
		if la.Kind == lexer.KindLP {
			args, err := p.parseSymbolList(ast.ArgList, ast.Arg, "argument")
			if err != nil {
				return nil, err
			}
			return ast.New(ast.FuncCall, tok).Add(args), nil
		}
		return ast.New(ast.Name, tok), nil
	default:
		return nil, unexpected(tok, "integer, variable or function call")
	}
}

func isOneOf(k lexer.Kind, kinds []lexer.Kind) bool {
	for _, c := range kinds {
		if k == c {
			return true
		}
	}
	return false
}
