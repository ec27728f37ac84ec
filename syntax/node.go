package syntax

import (
	"strconv"
	"strings"
)

// NodeType enumerates the value kinds this grammar's Node tree carries.
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeInt
	NodeFloat
	NodeString
	NodeList
)

// Node is one parsed surface-syntax value: an atom (symbol, number,
// string) or a parenthesized list of child Nodes.
type Node struct {
	Type  NodeType
	Value string
	Nodes []Node
	Line  int
	Col   int
}

func (n Node) String() string {
	if n.Type != NodeList {
		if n.Type == NodeString {
			return strconv.Quote(n.Value)
		}
		return n.Value
	}
	parts := make([]string, len(n.Nodes))
	for i, c := range n.Nodes {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Sym is the head symbol of a list Node, or "" if n isn't a non-empty
// list headed by a symbol.
func (n Node) Sym() string {
	if n.Type != NodeList || len(n.Nodes) == 0 || n.Nodes[0].Type != NodeSymbol {
		return ""
	}
	return n.Nodes[0].Value
}

// Args returns every Node after the head symbol of a list.
func (n Node) Args() []Node {
	if n.Type != NodeList || len(n.Nodes) == 0 {
		return nil
	}
	return n.Nodes[1:]
}
