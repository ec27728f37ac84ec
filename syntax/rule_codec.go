package syntax

import (
	"fmt"
	"strconv"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

// ParseRuleProgram parses src as a top-level
// (program (relations ...) (clauses ...) (queries ...)) form into a
// rule.Program.
//
// Grammar:
//
//	(program (relations (name arity [input] [output])...)
//	         (clauses (clause (head rel arg...) (body lit...))...)
//	         (queries rel...))
//
//	lit    := (atom rel arg...) | (not (atom rel arg...)) | (cmp op lhs rhs)
//	arg    := ?name | const | (rec arg...) | (f name arg...) | (agg op target? lit...)
//	const  := int | float | "string"
func ParseRuleProgram(src string) (*rule.Program, error) {
	root, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return DecodeRuleProgram(*root)
}

// DecodeRuleProgram translates an already-parsed Node tree rooted at a
// (program ...) form into a rule.Program.
func DecodeRuleProgram(root Node) (*rule.Program, error) {
	if root.Sym() != "program" {
		return nil, fmt.Errorf("expected (program ...), got %s", root.String())
	}
	p := rule.NewProgram()

	for _, section := range root.Args() {
		switch section.Sym() {
		case "relations":
			if err := decodeRelations(p, section); err != nil {
				return nil, err
			}
		case "clauses":
			if err := decodeClauses(p, section); err != nil {
				return nil, err
			}
		case "queries":
			for _, q := range section.Args() {
				ref, ok := p.Relations.Resolve(q.Value)
				if !ok {
					return nil, fmt.Errorf("query names undeclared relation %q", q.Value)
				}
				p.Queries = append(p.Queries, ref)
			}
		default:
			return nil, fmt.Errorf("unknown program section %q", section.Sym())
		}
	}
	return p, nil
}

func decodeRelations(p *rule.Program, section Node) error {
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

func decodeClauses(p *rule.Program, section Node) error {
	for _, cl := range section.Args() {
		if cl.Sym() != "clause" {
			return fmt.Errorf("expected (clause ...), got %s", cl.String())
		}
		var head *rule.Atom
		var body []rule.Literal
		for _, part := range cl.Args() {
			switch part.Sym() {
			case "head":
				atom, err := decodeHeadAtom(p, part)
				if err != nil {
					return err
				}
				head = atom
			case "body":
				for _, lit := range part.Args() {
					decoded, err := decodeLiteral(p, lit)
					if err != nil {
						return err
					}
					body = append(body, decoded)
				}
			default:
				return fmt.Errorf("clause: unknown section %q", part.Sym())
			}
		}
		if head == nil {
			return fmt.Errorf("clause missing (head ...)")
		}
		p.Clauses = append(p.Clauses, &rule.Clause{Head: head, Body: body})
	}
	return nil
}

func decodeHeadAtom(p *rule.Program, n Node) (*rule.Atom, error) {
	args := n.Args()
	if len(args) == 0 {
		return nil, fmt.Errorf("malformed head %s", n.String())
	}
	ref, ok := p.Relations.Resolve(args[0].Value)
	if !ok {
		return nil, fmt.Errorf("head references undeclared relation %q", args[0].Value)
	}
	decodedArgs, err := decodeArgs(p, args[1:])
	if err != nil {
		return nil, err
	}
	return &rule.Atom{Relation: ref, Args: decodedArgs}, nil
}

func decodeLiteral(p *rule.Program, n Node) (rule.Literal, error) {
	switch n.Sym() {
	case "atom":
		return decodeAtomLiteral(p, n)
	case "not":
		inner := n.Args()
		if len(inner) != 1 || inner[0].Sym() != "atom" {
			return nil, fmt.Errorf("malformed negation %s", n.String())
		}
		atom, err := decodeAtomLiteral(p, inner[0])
		if err != nil {
			return nil, err
		}
		return &rule.Negation{Atom: atom}, nil
	case "cmp":
		args := n.Args()
		if len(args) != 3 {
			return nil, fmt.Errorf("malformed constraint %s", n.String())
		}
		op, err := decodeCompareOp(args[0].Value)
		if err != nil {
			return nil, err
		}
		lhs, err := decodeArg(p, args[1])
		if err != nil {
			return nil, err
		}
		rhs, err := decodeArg(p, args[2])
		if err != nil {
			return nil, err
		}
		return &rule.BinaryConstraint{Op: op, LHS: lhs, RHS: rhs}, nil
	default:
		return nil, fmt.Errorf("unknown literal form %q", n.Sym())
	}
}

func decodeAtomLiteral(p *rule.Program, n Node) (*rule.Atom, error) {
	args := n.Args()
	if len(args) == 0 {
		return nil, fmt.Errorf("malformed atom %s", n.String())
	}
	ref, ok := p.Relations.Resolve(args[0].Value)
	if !ok {
		return nil, fmt.Errorf("atom references undeclared relation %q", args[0].Value)
	}
	decodedArgs, err := decodeArgs(p, args[1:])
	if err != nil {
		return nil, err
	}
	return &rule.Atom{Relation: ref, Args: decodedArgs}, nil
}

func decodeCompareOp(s string) (rule.CompareOp, error) {
	switch s {
	case "=":
		return rule.EQ, nil
	case "!=":
		return rule.NE, nil
	case "<":
		return rule.LT, nil
	case "<=":
		return rule.LE, nil
	case ">":
		return rule.GT, nil
	case ">=":
		return rule.GE, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
}

func decodeArgs(p *rule.Program, nodes []Node) ([]rule.Argument, error) {
	out := make([]rule.Argument, len(nodes))
	for i, n := range nodes {
		a, err := decodeArg(p, n)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func decodeArg(p *rule.Program, n Node) (rule.Argument, error) {
	switch n.Type {
	case NodeInt:
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, err
		}
		return rule.Constant{Value: v}, nil
	case NodeFloat:
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, err
		}
		return rule.Constant{Value: v}, nil
	case NodeString:
		return rule.Constant{Value: n.Value}, nil
	case NodeSymbol:
		if len(n.Value) > 1 && n.Value[0] == '?' {
			return rule.Variable{Name: n.Value[1:]}, nil
		}
		return rule.Constant{Value: n.Value}, nil
	case NodeList:
		return decodeCompoundArg(p, n)
	default:
		return nil, fmt.Errorf("unrecognised argument %s", n.String())
	}
}

func decodeCompoundArg(p *rule.Program, n Node) (rule.Argument, error) {
	switch n.Sym() {
	case "rec":
		fields, err := decodeArgs(p, n.Args())
		if err != nil {
			return nil, err
		}
		return &rule.RecordInit{Fields: fields}, nil
	case "f":
		args := n.Args()
		if len(args) == 0 {
			return nil, fmt.Errorf("malformed functor %s", n.String())
		}
		fields, err := decodeArgs(p, args[1:])
		if err != nil {
			return nil, err
		}
		return &rule.Functor{Name: args[0].Value, Args: fields}, nil
	case "agg":
		return decodeAggregator(p, n)
	default:
		return nil, fmt.Errorf("unknown compound argument form %q", n.Sym())
	}
}

func decodeAggregator(p *rule.Program, n Node) (rule.Argument, error) {
	args := n.Args()
	if len(args) < 1 {
		return nil, fmt.Errorf("malformed aggregator %s", n.String())
	}
	op := args[0].Value
	rest := args[1:]

	var target rule.Argument
	var bodyNodes []Node
	if len(rest) > 0 && rest[0].Sym() != "atom" && rest[0].Sym() != "not" && rest[0].Sym() != "cmp" {
		t, err := decodeArg(p, rest[0])
		if err != nil {
			return nil, err
		}
		target = t
		bodyNodes = rest[1:]
	} else {
		bodyNodes = rest
	}

	var body []rule.Literal
	for _, b := range bodyNodes {
		lit, err := decodeLiteral(p, b)
		if err != nil {
			return nil, err
		}
		body = append(body, lit)
	}
	return &rule.Aggregator{Op: op, Target: target, Body: body}, nil
}

// EncodeRuleProgram renders a rule.Program back to its Node-tree surface
// form, the inverse of DecodeRuleProgram.
func EncodeRuleProgram(p *rule.Program) Node {
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

	var clauses []Node
	for _, c := range p.Clauses {
		head := Node{Type: NodeList, Nodes: append([]Node{
			{Type: NodeSymbol, Value: "head"},
			{Type: NodeSymbol, Value: p.Relations.Lookup(c.Head.Relation).Name},
		}, encodeArgs(p, c.Head.Args)...)}

		var bodyLits []Node
		for _, lit := range c.Body {
			bodyLits = append(bodyLits, encodeLiteral(p, lit))
		}
		body := Node{Type: NodeList, Nodes: append([]Node{
			{Type: NodeSymbol, Value: "body"},
		}, bodyLits...)}

		clauses = append(clauses, Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "clause"}, head, body,
		}})
	}

	var queries []Node
	for _, q := range p.Queries {
		queries = append(queries, Node{Type: NodeSymbol, Value: p.Relations.Lookup(q).Name})
	}

	return Node{Type: NodeList, Nodes: []Node{
		{Type: NodeSymbol, Value: "program"},
		{Type: NodeList, Nodes: append([]Node{{Type: NodeSymbol, Value: "relations"}}, relations...)},
		{Type: NodeList, Nodes: append([]Node{{Type: NodeSymbol, Value: "clauses"}}, clauses...)},
		{Type: NodeList, Nodes: append([]Node{{Type: NodeSymbol, Value: "queries"}}, queries...)},
	}}
}

func encodeLiteral(p *rule.Program, lit rule.Literal) Node {
	switch v := lit.(type) {
	case *rule.Atom:
		return encodeAtom(p, "atom", v)
	case *rule.Negation:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "not"}, encodeAtom(p, "atom", v.Atom),
		}}
	case *rule.BinaryConstraint:
		return Node{Type: NodeList, Nodes: []Node{
			{Type: NodeSymbol, Value: "cmp"},
			{Type: NodeSymbol, Value: v.Op.String()},
			encodeArg(p, v.LHS),
			encodeArg(p, v.RHS),
		}}
	default:
		panic(fmt.Sprintf("encodeLiteral: unhandled literal type %T", lit))
	}
}

func encodeAtom(p *rule.Program, head string, a *rule.Atom) Node {
	name := p.Relations.Lookup(a.Relation).Name
	nodes := append([]Node{
		{Type: NodeSymbol, Value: head},
		{Type: NodeSymbol, Value: name},
	}, encodeArgs(p, a.Args)...)
	return Node{Type: NodeList, Nodes: nodes}
}

func encodeArgs(p *rule.Program, args []rule.Argument) []Node {
	out := make([]Node, len(args))
	for i, a := range args {
		out[i] = encodeArg(p, a)
	}
	return out
}

func encodeArg(p *rule.Program, a rule.Argument) Node {
	switch v := a.(type) {
	case rule.Variable:
		return Node{Type: NodeSymbol, Value: "?" + v.Name}
	case rule.Constant:
		return encodeConstant(v.Value)
	case *rule.RecordInit:
		return Node{Type: NodeList, Nodes: append([]Node{
			{Type: NodeSymbol, Value: "rec"},
		}, encodeArgs(p, v.Fields)...)}
	case *rule.Functor:
		return Node{Type: NodeList, Nodes: append([]Node{
			{Type: NodeSymbol, Value: "f"},
			{Type: NodeSymbol, Value: v.Name},
		}, encodeArgs(p, v.Args)...)}
	case *rule.Aggregator:
		nodes := []Node{{Type: NodeSymbol, Value: "agg"}, {Type: NodeSymbol, Value: v.Op}}
		if v.Target != nil {
			nodes = append(nodes, encodeArg(p, v.Target))
		}
		for _, lit := range v.Body {
			nodes = append(nodes, encodeLiteral(p, lit))
		}
		return Node{Type: NodeList, Nodes: nodes}
	default:
		panic(fmt.Sprintf("encodeArg: unhandled argument type %T", a))
	}
}

func encodeConstant(value any) Node {
	switch v := value.(type) {
	case int64:
		return Node{Type: NodeInt, Value: strconv.FormatInt(v, 10)}
	case int:
		return Node{Type: NodeInt, Value: strconv.Itoa(v)}
	case float64:
		return Node{Type: NodeFloat, Value: strconv.FormatFloat(v, 'f', -1, 64)}
	case string:
		return Node{Type: NodeString, Value: v}
	default:
		return Node{Type: NodeString, Value: fmt.Sprintf("%v", v)}
	}
}
