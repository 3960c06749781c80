package lexer

import (
	"fmt"
	"sort"
)

// KeywordTable maps reserved words to the token kind they scan as.
type KeywordTable map[string]Kind

// DefaultKeywords returns a fresh copy of the built-in reserved words.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		"print":  KindPrint,
		"func":   KindFuncDecl,
		"return": KindReturn,
		"while":  KindWhile,
	}
}

// keywordKinds lists the kinds a reserved word may be bound to.
var keywordKinds = map[string]Kind{
	"print":  KindPrint,
	"func":   KindFuncDecl,
	"return": KindReturn,
	"while":  KindWhile,
}

// KeywordKind resolves a kind name as written in configuration files.
func KeywordKind(name string) (Kind, error) {
	k, ok := keywordKinds[name]
	if !ok {
		return KindEOF, fmt.Errorf("unknown keyword kind %q (want one of %v)", name, KeywordKindNames())
	}
	return k, nil
}

// KeywordKindNames returns the accepted kind names in sorted order.
func KeywordKindNames() []string {
	names := make([]string, 0, len(keywordKinds))
	for name := range keywordKinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup classifies an alphabetic run.
func (t KeywordTable) Lookup(word string) Kind {
	if k, ok := t[word]; ok {
		return k
	}
	return KindSymbol
}
