package syntax

import (
	"fmt"
	"strconv"

	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/program"
)

// ParseRAProgram parses src as a top-level (ra-program ...) form into an
// ra.Program.
//
// Grammar:
//
//	(ra-program (relations (name arity [input] [output] [intermediate])...)
//	            (root stmt))
//
//	stmt   := (seq stmt...) | (query op)
//	op     := (scan id rel inner)
//	        | (index-scan id rel (pattern p...) inner)
//	        | (filter cond inner)
//	        | (unpack-record expr inner)
//	        | (project expr...)
//	        | (return expr)
//	cond   := (and c c...) | (not c) | (cmp op lhs rhs)
//	        | (empty? rel) | (exists? rel (pattern p...))
//	expr   := (access id col) | const | (op name arg...)
//	        | (udo name pure? arg...) | (pack arg...)
//	id     := int | outer
//	p      := "_" | expr
func ParseRAProgram(src string) (*ra.Program, error) {
	root, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return DecodeRAProgram(*root)
}

// DecodeRAProgram translates an already-parsed Node tree rooted at a
// (ra-program ...) form into an ra.Program.
func DecodeRAProgram(root Node) (*ra.Program, error) {
	if root.Sym() != "ra-program" {
		return nil, fmt.Errorf("expected (ra-program ...), got %s", root.String())
	}
	p := &ra.Program{Relations: program.NewRelationTable()}

	var rootStmt ra.Statement
	for _, section := range root.Args() {
		switch section.Sym() {
		case "relations":
			if err := decodeRARelations(p, section); err != nil {
				return nil, err
			}
		case "root":
			args := section.Args()
			if len(args) != 1 {
				return nil, fmt.Errorf("malformed (root ...): %s", section.String())
			}
			stmt, err := decodeStatement(p, args[0])
			if err != nil {
				return nil, err
			}
			rootStmt = stmt
		default:
			return nil, fmt.Errorf("unknown ra-program section %q", section.Sym())
		}
	}
	if rootStmt == nil {
		return nil, fmt.Errorf("ra-program missing (root ...)")
	}
	p.Root = rootStmt
	return p, nil
}

func decodeRARelations(p *ra.Program, section Node) error {
	for _, rel := range section.Args() {
		args := rel.Nodes
		if rel.Type != NodeList || len(args) < 2 {
			return fmt.Errorf("malformed relation declaration %s", rel.String())
		}
		name := args[0].Value
		arity, err := strconv.Atoi(args[1].Value)
		if err != nil {
			return fmt.Errorf("relation %q: bad arity %q", name, args[1].Value)
		}
		r := program.Relation{Name: name, Arity: arity}
		for _, flag := range args[2:] {
			switch flag.Value {
			case "input":
				r.Input = true
			case "output":
				r.Output = true
			case "intermediate":
				r.Intermediate = true
			default:
				return fmt.Errorf("relation %q: unknown flag %q", name, flag.Value)
			}
		}
		p.Relations.Declare(r)
	}
	return nil
}

func decodeStatement(p *ra.Program, n Node) (ra.Statement, error) {
	switch n.Sym() {
	case "seq":
		var stmts []ra.Statement
		for _, s := range n.Args() {
			stmt, err := decodeStatement(p, s)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		return &ra.Sequence{Statements: stmts}, nil
	case "query":
		args := n.Args()
		if len(args) != 1 {
			return nil, fmt.Errorf("malformed (query ...): %s", n.String())
		}
		op, err := decodeOperation(p, args[0])
		if err != nil {
			return nil, err
		}
		return &ra.QueryStatement{Query: &ra.Query{Operation: op}}, nil
	default:
		return nil, fmt.Errorf("unknown statement form %q", n.Sym())
	}
}

func decodeOperation(p *ra.Program, n Node) (ra.Operation, error) {
	args := n.Args()
	switch n.Sym() {
	case "scan":
		if len(args) != 3 {
			return nil, fmt.Errorf("malformed scan %s", n.String())
		}
		id, err := decodeIdentifier(args[0])
		if err != nil {
			return nil, err
		}
		ref, err := resolveRelation(p, args[1].Value)
		if err != nil {
			return nil, err
		}
		inner, err := decodeOperation(p, args[2])
		if err != nil {
			return nil, err
		}
		return &ra.Scan{Identifier: id, Relation: ref, Inner: inner}, nil
	case "index-scan":
		if len(args) != 4 || args[2].Sym() != "pattern" {
			return nil, fmt.Errorf("malformed index-scan %s", n.String())
		}
		id, err := decodeIdentifier(args[0])
		if err != nil {
			return nil, err
		}
		ref, err := resolveRelation(p, args[1].Value)
		if err != nil {
			return nil, err
		}
		pattern, err := decodePattern(args[2])
		if err != nil {
			return nil, err
		}
		inner, err := decodeOperation(p, args[3])
		if err != nil {
			return nil, err
		}
		return &ra.IndexScan{Identifier: id, Relation: ref, Pattern: pattern, Inner: inner}, nil
	case "filter":
		if len(args) != 2 {
			return nil, fmt.Errorf("malformed filter %s", n.String())
		}
		cond, err := decodeCondition(p, args[0])
		if err != nil {
			return nil, err
		}
		inner, err := decodeOperation(p, args[1])
		if err != nil {
			return nil, err
		}
		return &ra.Filter{Condition: cond, Inner: inner}, nil
	case "unpack-record":
		if len(args) != 2 {
			return nil, fmt.Errorf("malformed unpack-record %s", n.String())
		}
		rec, err := decodeExpression(args[0])
		if err != nil {
			return nil, err
		}
		inner, err := decodeOperation(p, args[1])
		if err != nil {
			return nil, err
		}
		return &ra.UnpackRecord{Record: rec, Inner: inner}, nil
	case "project":
		values := make([]ra.Expression, len(args))
		for i, a := range args {
			v, err := decodeExpression(a)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return &ra.Project{Values: values}, nil
	case "return":
		if len(args) != 1 {
			return nil, fmt.Errorf("malformed return %s", n.String())
		}
		v, err := decodeExpression(args[0])
		if err != nil {
			return nil, err
		}
		return &ra.Return{Value: v}, nil
	default:
		return nil, fmt.Errorf("unknown operation form %q", n.Sym())
	}
}

func decodePattern(n Node) ([]ra.Expression, error) {
	elems := n.Args()
	pattern := make([]ra.Expression, len(elems))
	for i, e := range elems {
		if e.Type == NodeSymbol && e.Value == "_" {
			continue
		}
		v, err := decodeExpression(e)
		if err != nil {
			return nil, err
		}
		pattern[i] = v
	}
	return pattern, nil
}

func decodeIdentifier(n Node) (ra.Identifier, error) {
	if n.Type == NodeSymbol && n.Value == "outer" {
		return ra.Outer, nil
	}
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("bad identifier %q", n.Value)
	}
	return ra.Identifier(v), nil
}

func resolveRelation(p *ra.Program, name string) (program.RelationRef, error) {
	ref, ok := p.Relations.Resolve(name)
	if !ok {
		return 0, fmt.Errorf("reference to undeclared relation %q", name)
	}
	return ref, nil
}

func decodeCondition(p *ra.Program, n Node) (ra.Condition, error) {
	args := n.Args()
	switch n.Sym() {
	case "and":
		conds := make([]ra.Condition, len(args))
		for i, a := range args {
			c, err := decodeCondition(p, a)
			if err != nil {
				return nil, err
			}
			conds[i] = c
		}
		return ra.And(conds...), nil
	case "not":
		if len(args) != 1 {
			return nil, fmt.Errorf("malformed not %s", n.String())
		}
		inner, err := decodeCondition(p, args[0])
		if err != nil {
			return nil, err
		}
		return &ra.Negation{Condition: inner}, nil
	case "cmp":
		if len(args) != 3 {
			return nil, fmt.Errorf("malformed cmp %s", n.String())
		}
		op, err := decodeRACompareOp(args[0].Value)
		if err != nil {
			return nil, err
		}
		lhs, err := decodeExpression(args[1])
		if err != nil {
			return nil, err
		}
		rhs, err := decodeExpression(args[2])
		if err != nil {
			return nil, err
		}
		return &ra.Constraint{Op: op, LHS: lhs, RHS: rhs}, nil
	case "empty?":
		if len(args) != 1 {
			return nil, fmt.Errorf("malformed empty? %s", n.String())
		}
		ref, err := resolveRelation(p, args[0].Value)
		if err != nil {
			return nil, err
		}
		return &ra.EmptinessCheck{Relation: ref}, nil
	case "exists?":
		if len(args) != 2 || args[1].Sym() != "pattern" {
			return nil, fmt.Errorf("malformed exists? %s", n.String())
		}
		ref, err := resolveRelation(p, args[0].Value)
		if err != nil {
			return nil, err
		}
		pattern, err := decodePattern(args[1])
		if err != nil {
			return nil, err
		}
		return &ra.ExistenceCheck{Relation: ref, Pattern: pattern}, nil
	default:
		return nil, fmt.Errorf("unknown condition form %q", n.Sym())
	}
}

func decodeRACompareOp(s string) (ra.CompareOp, error) {
	switch s {
	case "=":
		return ra.EQ, nil
	case "!=":
		return ra.NE, nil
	case "<":
		return ra.LT, nil
	case "<=":
		return ra.LE, nil
	case ">":
		return ra.GT, nil
	case ">=":
		return ra.GE, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
}

func decodeExpression(n Node) (ra.Expression, error) {
	switch n.Type {
	case NodeInt:
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, err
		}
		return ra.Const{Value: v}, nil
	case NodeFloat:
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, err
		}
		return ra.Const{Value: v}, nil
	case NodeString:
		return ra.Const{Value: n.Value}, nil
	case NodeSymbol:
		return ra.Const{Value: n.Value}, nil
	case NodeList:
		return decodeExpressionForm(n)
	default:
		return nil, fmt.Errorf("unrecognised expression %s", n.String())
	}
}

func decodeExpressionForm(n Node) (ra.Expression, error) {
	args := n.Args()
	switch n.Sym() {
	case "access":
		if len(args) != 2 {
			return nil, fmt.Errorf("malformed access %s", n.String())
		}
		id, err := decodeIdentifier(args[0])
		if err != nil {
			return nil, err
		}
		col, err := strconv.Atoi(args[1].Value)
		if err != nil {
			return nil, fmt.Errorf("access: bad column %q", args[1].Value)
		}
		return ra.ElementAccess{Identifier: id, Column: col}, nil
	case "op":
		if len(args) == 0 {
			return nil, fmt.Errorf("malformed op %s", n.String())
		}
		operands, err := decodeExpressions(args[1:])
		if err != nil {
			return nil, err
		}
		return &ra.IntrinsicOperator{Op: args[0].Value, Args: operands}, nil
	case "udo":
		if len(args) < 2 {
			return nil, fmt.Errorf("malformed udo %s", n.String())
		}
		pure, err := strconv.ParseBool(args[1].Value)
		if err != nil {
			return nil, fmt.Errorf("udo %q: bad pure flag %q", args[0].Value, args[1].Value)
		}
		operands, err := decodeExpressions(args[2:])
		if err != nil {
			return nil, err
		}
		return &ra.UserDefinedOperator{Name: args[0].Value, Args: operands, Pure: pure}, nil
	case "pack":
		operands, err := decodeExpressions(args)
		if err != nil {
			return nil, err
		}
		return &ra.PackRecord{Args: operands}, nil
	default:
		return nil, fmt.Errorf("unknown expression form %q", n.Sym())
	}
}

func decodeExpressions(nodes []Node) ([]ra.Expression, error) {
	out := make([]ra.Expression, len(nodes))
	for i, n := range nodes {
		v, err := decodeExpression(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeRAProgram renders an ra.Program back to its Node-tree surface
// form, the inverse of DecodeRAProgram.
func EncodeRAProgram(p *ra.Program) Node {
	var relations []Node
	for _, rel := range p.Relations.All() {
		children := []Node{
			{Type: NodeSymbol, Value: rel.Name},
			{Type: NodeInt, Value: strconv.Itoa(rel.Arity)},
		}
		if rel.Input {
			children = append(children, Node{Type: NodeSymbol, Value: "input"})
		}
		if rel.Output {
			children = append(children, Node{Type: NodeSymbol, Value: "output"})
		}
		if rel.Intermediate {
			children = append(children, Node{Type: NodeSymbol, Value: "intermediate"})
		}
		relations = append(relations, Node{Type: NodeList, Nodes: children})
	}

	return Node{Type: NodeList, Nodes: []Node{
		{Type: NodeSymbol, Value: "ra-program"},
		{Type: NodeList, Nodes: append([]Node{{Type: NodeSymbol, Value: "relations"}}, relations...)},
		{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "root"}, encodeStatement(p, p.Root),
		}},
	}}
}

func encodeStatement(p *ra.Program, s ra.Statement) Node {
	switch v := s.(type) {
	case *ra.Sequence:
		nodes := []Node{{Type: NodeSymbol, Value: "seq"}}
		for _, sub := range v.Statements {
			nodes = append(nodes, encodeStatement(p, sub))
		}
		return Node{Type: NodeList, Nodes: nodes}
	case *ra.QueryStatement:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "query"}, encodeOperation(p, v.Query.Operation),
		}}
	default:
		panic(fmt.Sprintf("encodeStatement: unhandled statement type %T", s))
	}
}

func encodeOperation(p *ra.Program, op ra.Operation) Node {
	switch v := op.(type) {
	case *ra.Scan:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "scan"},
			encodeIdentifier(v.Identifier),
			{Type: NodeSymbol, Value: p.Relations.Lookup(v.Relation).Name},
			encodeOperation(p, v.Inner),
		}}
	case *ra.IndexScan:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "index-scan"},
			encodeIdentifier(v.Identifier),
			{Type: NodeSymbol, Value: p.Relations.Lookup(v.Relation).Name},
			encodePattern(v.Pattern),
			encodeOperation(p, v.Inner),
		}}
	case *ra.Filter:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "filter"},
			encodeCondition(p, v.Condition),
			encodeOperation(p, v.Inner),
		}}
	case *ra.UnpackRecord:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "unpack-record"},
			encodeExpression(v.Record),
			encodeOperation(p, v.Inner),
		}}
	case *ra.Project:
		nodes := []Node{{Type: NodeSymbol, Value: "project"}}
		for _, val := range v.Values {
			nodes = append(nodes, encodeExpression(val))
		}
		return Node{Type: NodeList, Nodes: nodes}
	case *ra.Return:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "return"}, encodeExpression(v.Value),
		}}
	default:
		panic(fmt.Sprintf("encodeOperation: unhandled operation type %T", op))
	}
}

func encodePattern(pattern []ra.Expression) Node {
	nodes := []Node{{Type: NodeSymbol, Value: "pattern"}}
	for _, e := range pattern {
		if e == nil {
			nodes = append(nodes, Node{Type: NodeSymbol, Value: "_"})
			continue
		}
		nodes = append(nodes, encodeExpression(e))
	}
	return Node{Type: NodeList, Nodes: nodes}
}

func encodeIdentifier(id ra.Identifier) Node {
	if id == ra.Outer {
		return Node{Type: NodeSymbol, Value: "outer"}
	}
	return Node{Type: NodeInt, Value: strconv.Itoa(int(id))}
}

func encodeCondition(p *ra.Program, c ra.Condition) Node {
	switch v := c.(type) {
	case *ra.Conjunction:
		nodes := []Node{{Type: NodeSymbol, Value: "and"}}
		for _, conjunct := range ra.Conjuncts(v) {
			nodes = append(nodes, encodeCondition(p, conjunct))
		}
		return Node{Type: NodeList, Nodes: nodes}
	case *ra.Negation:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "not"}, encodeCondition(p, v.Condition),
		}}
	case *ra.Constraint:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "cmp"},
			{Type: NodeSymbol, Value: v.Op.String()},
			encodeExpression(v.LHS),
			encodeExpression(v.RHS),
		}}
	case *ra.EmptinessCheck:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "empty?"},
			{Type: NodeSymbol, Value: p.Relations.Lookup(v.Relation).Name},
		}}
	case *ra.ExistenceCheck:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "exists?"},
			{Type: NodeSymbol, Value: p.Relations.Lookup(v.Relation).Name},
			encodePattern(v.Pattern),
		}}
	default:
		panic(fmt.Sprintf("encodeCondition: unhandled condition type %T", c))
	}
}

func encodeExpression(e ra.Expression) Node {
	switch v := e.(type) {
	case ra.ElementAccess:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "access"},
			encodeIdentifier(v.Identifier),
			{Type: NodeInt, Value: strconv.Itoa(v.Column)},
		}}
	case ra.Const:
		return encodeConstant(v.Value)
	case *ra.IntrinsicOperator:
		nodes := []Node{{Type: NodeSymbol, Value: "op"}, {Type: NodeSymbol, Value: v.Op}}
		for _, a := range v.Args {
			nodes = append(nodes, encodeExpression(a))
		}
		return Node{Type: NodeList, Nodes: nodes}
	case *ra.UserDefinedOperator:
		nodes := []Node{
			{Type: NodeSymbol, Value: "udo"},
			{Type: NodeSymbol, Value: v.Name},
			{Type: NodeSymbol, Value: strconv.FormatBool(v.Pure)},
		}
		for _, a := range v.Args {
			nodes = append(nodes, encodeExpression(a))
		}
		return Node{Type: NodeList, Nodes: nodes}
	case *ra.PackRecord:
		nodes := []Node{{Type: NodeSymbol, Value: "pack"}}
		for _, a := range v.Args {
			nodes = append(nodes, encodeExpression(a))
		}
		return Node{Type: NodeList, Nodes: nodes}
	default:
		panic(fmt.Sprintf("encodeExpression: unhandled expression type %T", e))
	}
}
