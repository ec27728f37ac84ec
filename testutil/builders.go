// Package testutil provides small declarative builder helpers for
// constructing RA-IR and rule-IR fixtures in tests, instead of every test
// hand-nesting struct literals. Grounded on the teacher's
// datalog/executor/test_fixtures.go, which plays the same role for the
// teacher's own Relation/pattern-matching tests.
package testutil

import (
	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
)

// NewRAProgram declares every relation in arities (name -> arity) and
// returns an ra.Program with an empty root, ready for a test to attach a
// Query built with the helpers below.
func NewRAProgram(arities map[string]int) *ra.Program {
	p := &ra.Program{Relations: program.NewRelationTable()}
	for name, arity := range arities {
		p.Relations.Declare(program.Relation{Name: name, Arity: arity})
	}
	return p
}

// Rel resolves a relation name to its handle, panicking if undeclared —
// tests are expected to have declared every relation they reference via
// NewRAProgram/NewRuleProgram.
func Rel(p *ra.Program, name string) program.RelationRef {
	ref, ok := p.Relations.Resolve(name)
	if !ok {
		panic("testutil: undeclared relation " + name)
	}
	return ref
}

// Scan builds a Scan with no profile note, the common case in tests.
func Scan(id ra.Identifier, rel program.RelationRef, inner ra.Operation) *ra.Scan {
	return &ra.Scan{Identifier: id, Relation: rel, Inner: inner}
}

// IndexScan builds an IndexScan over pattern, where a nil entry means
// "unbound" and matches Pattern's own convention.
func IndexScan(id ra.Identifier, rel program.RelationRef, pattern []ra.Expression, inner ra.Operation) *ra.IndexScan {
	return &ra.IndexScan{Identifier: id, Relation: rel, Pattern: pattern, Inner: inner}
}

// Filter builds a Filter node.
func Filter(cond ra.Condition, inner ra.Operation) *ra.Filter {
	return &ra.Filter{Condition: cond, Inner: inner}
}

// Project builds a terminal Project node.
func Project(values ...ra.Expression) *ra.Project {
	return &ra.Project{Values: values}
}

// Return builds a terminal Return node.
func Return(value ra.Expression) *ra.Return {
	return &ra.Return{Value: value}
}

// Access builds an ElementAccess expression.
func Access(id ra.Identifier, col int) ra.ElementAccess {
	return ra.ElementAccess{Identifier: id, Column: col}
}

// Const builds a Const expression.
func Const(value any) ra.Const { return ra.Const{Value: value} }

// EQ builds an equality Constraint.
func EQ(lhs, rhs ra.Expression) *ra.Constraint { return &ra.Constraint{Op: ra.EQ, LHS: lhs, RHS: rhs} }

// Cmp builds a Constraint with an explicit operator.
func Cmp(op ra.CompareOp, lhs, rhs ra.Expression) *ra.Constraint {
	return &ra.Constraint{Op: op, LHS: lhs, RHS: rhs}
}

// Query wraps op as a single-query Program root, the shape most pass
// tests need (one query in, one query out).
func Query(p *ra.Program, op ra.Operation) {
	p.Root = &ra.QueryStatement{Query: &ra.Query{Operation: op}}
}

// NewRuleProgram declares every relation in arities and returns an empty
// rule.Program.
func NewRuleProgram(arities map[string]int) *rule.Program {
	p := rule.NewProgram()
	for name, arity := range arities {
		p.Relations.Declare(program.Relation{Name: name, Arity: arity})
	}
	return p
}

// RuleAtom builds a rule-IR Atom over the named relation.
func RuleAtom(p *rule.Program, name string, args ...rule.Argument) *rule.Atom {
	ref, ok := p.Relations.Resolve(name)
	if !ok {
		panic("testutil: undeclared relation " + name)
	}
	return &rule.Atom{Relation: ref, Args: args}
}

// Var builds a Variable argument.
func Var(name string) rule.Variable { return rule.Variable{Name: name} }

// Val builds a Constant argument.
func Val(value any) rule.Constant { return rule.Constant{Value: value} }

// Not wraps an Atom as a Negation literal.
func Not(atom *rule.Atom) *rule.Negation { return &rule.Negation{Atom: atom} }

// RuleEQ builds an equality BinaryConstraint literal.
func RuleEQ(lhs, rhs rule.Argument) *rule.BinaryConstraint {
	return &rule.BinaryConstraint{Op: rule.EQ, LHS: lhs, RHS: rhs}
}

// RuleCmp builds a BinaryConstraint literal with an explicit operator.
func RuleCmp(op rule.CompareOp, lhs, rhs rule.Argument) *rule.BinaryConstraint {
	return &rule.BinaryConstraint{Op: op, LHS: lhs, RHS: rhs}
}

// Clause builds a Clause and appends it to p.
func Clause(p *rule.Program, head *rule.Atom, body ...rule.Literal) *rule.Clause {
	c := &rule.Clause{Head: head, Body: body}
	p.Clauses = append(p.Clauses, c)
	return c
}
