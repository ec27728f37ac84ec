// Package syntax implements a small S-expression surface syntax for both
// IRs — the textual form `souffle-opt` reads fixtures from and prints
// results as. It is a trimmed adaptation of the teacher's EDN lexer/node/
// parser (datalog/edn): the collection syntax (vectors, maps, sets,
// tagged values) isn't needed for a Datalog rule/RA-IR surface grammar,
// so only lists, symbols, strings, and numbers survive; everything this
// package keeps follows the teacher's two-phase lex-then-parse shape.
//
// File organization:
//   - token.go / lexer.go: tokenizer (adapted from datalog/edn/lexer.go)
//   - node.go: generic S-expression node tree (adapted from datalog/edn/node.go)
//   - parser.go: token stream -> Node tree
//   - rule_codec.go: Node tree <-> ir/rule.Program
//   - ra_codec.go: Node tree <-> ir/ra.Program
package syntax

import "fmt"

// TokenType enumerates the lexical token kinds this grammar needs.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenString
	TokenAtom
	TokenLeftParen
	TokenRightParen
)

// Token is one lexical token, carrying its source position for error
// messages.
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return fmt.Sprintf("EOF[%d:%d]", t.Line, t.Col)
	case TokenString:
		return fmt.Sprintf("String[%d:%d]:%q", t.Line, t.Col, t.Value)
	case TokenAtom:
		return fmt.Sprintf("Atom[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenLeftParen:
		return fmt.Sprintf("LeftParen[%d:%d]", t.Line, t.Col)
	case TokenRightParen:
		return fmt.Sprintf("RightParen[%d:%d]", t.Line, t.Col)
	default:
		return fmt.Sprintf("Unknown[%d:%d]:%s", t.Line, t.Col, t.Value)
	}
}
