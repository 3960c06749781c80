package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
)

// NodeType identifies the shape of a Node.
type NodeType uint8

const (
	Root NodeType = iota
	Print
	Assign
	Add
	Mul
	Pow
	Name
	Integer
	FuncDecl
	FuncBody
	FuncCall
	Return
	Param
	Arg
	ParamList
	ArgList
)

var nodeTypeNames = [...]string{
	Root:      "Root",
	Print:     "Print",
	Assign:    "Assign",
	Add:       "Add",
	Mul:       "Mul",
	Pow:       "Pow",
	Name:      "Name",
	Integer:   "Integer",
	FuncDecl:  "FuncDecl",
	FuncBody:  "FuncBody",
	FuncCall:  "FuncCall",
	Return:    "Return",
	Param:     "Param",
	Arg:       "Arg",
	ParamList: "ParamList",
	ArgList:   "ArgList",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", uint8(t))
}

// Node is one vertex of the syntax tree. Token anchors the node in the
// source; for binary operators it is the operator token, which also selects
// the operation (Add covers + - %, Mul covers * /).
//
// Fixed arities:
//
//	Print, Return          1 (expression)
//	Assign                 2 (Name, expression)
//	Add, Mul, Pow          2 (left, right)
//	FuncDecl               2 (ParamList, FuncBody)
//	FuncCall               1 (ArgList)
//	Name, Integer, Param, Arg  0
type Node struct {
	Token    lexer.Token
	Type     NodeType
	Children []*Node
}

// New creates a childless node.
func New(t NodeType, tok lexer.Token) *Node {
	return &Node{Token: tok, Type: t}
}

// Binary creates an operator node owning left and right.
func Binary(t NodeType, op lexer.Token, left, right *Node) *Node {
	return &Node{Token: op, Type: t, Children: []*Node{left, right}}
}

// Add appends child and returns n for chaining.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return n
}

// Pos returns the anchoring token.
func (n *Node) Pos() lexer.Token { return n.Token }

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Literal is shorthand for the anchoring token's text.
func (n *Node) Literal() string { return n.Token.Literal }

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, n *Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n *Node, depth int) error {
	line := strings.Repeat("  ", depth) + n.Type.String()
	if n.Type != Root {
		line += fmt.Sprintf(" %q @%d:%d", n.Token.Literal, n.Token.Row, n.Token.Col)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// String renders expression subtrees in fully parenthesized form and other
// nodes by type; used in diagnostics and tests.
func (n *Node) String() string {
	switch n.Type {
	case Integer, Name, Param, Arg:
		return n.Token.Literal
	case Add, Mul, Pow:
		return "(" + n.Children[0].String() + " " + n.Token.Literal + " " + n.Children[1].String() + ")"
	case FuncCall:
		args := n.Child(0)
		parts := make([]string, 0)
		if args != nil {
			for _, a := range args.Children {
				parts = append(parts, a.String())
			}
		}
		return n.Token.Literal + "(" + strings.Join(parts, ", ") + ")"
	}
	return n.Type.String()
}
