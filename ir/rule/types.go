// Package rule implements the high-level rule IR: clauses over relations,
// built from Atoms, Literals, and Arguments. This is the tree the
// magic-set pipeline (package mst) and its supporting passes (package
// passes) rewrite.
//
// File organization:
//   - types.go: Program, Clause, CompareOp
//   - literal.go: Literal union (Atom, Negation, BinaryConstraint)
//   - argument.go: Argument union (Variable, Constant, RecordInit, Functor, Aggregator)
//
// Deep-clone and structural equality for each node kind are defined beside
// its type in the three files above.
package rule

import "github.com/CloudDataLab/souffle/program"

// CompareOp enumerates the binary comparison operators a BinaryConstraint
// may carry, per spec §3.1's Constraint op set applied to rule-IR
// constraints as well (NormaliseDatabase emits EQ constraints).
type CompareOp int

const (
	EQ CompareOp = iota
	NE
	LT
	LE
	GT
	GE
)

func (op CompareOp) String() string {
	switch op {
	case EQ:
		return "="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	default:
		return "?"
	}
}

// Clause is a single rule: a head Atom derived from an ordered body of
// Literals. A Program with no clauses for a relation treats that relation
// as purely extensional (EDB).
type Clause struct {
	Head *Atom
	Body []Literal
}

// Clone deep-copies a clause, including its head and every body literal.
func (c *Clause) Clone() *Clause {
	if c == nil {
		return nil
	}
	body := make([]Literal, len(c.Body))
	for i, lit := range c.Body {
		body[i] = lit.CloneLiteral()
	}
	return &Clause{Head: c.Head.Clone(), Body: body}
}

// Equal reports structural equality between two clauses, including body
// literal order (clause bodies are ordered, unlike RA-IR conjunctions
// which are only verbose-ordered by convention).
func (c *Clause) Equal(other *Clause) bool {
	if c == nil || other == nil {
		return c == other
	}
	if !c.Head.Equal(other.Head) || len(c.Body) != len(other.Body) {
		return false
	}
	for i := range c.Body {
		if !c.Body[i].EqualLiteral(other.Body[i]) {
			return false
		}
	}
	return true
}

// Program owns every Relation known to the translation unit (via the
// shared program.RelationTable arena), the Clauses that define them, and
// the fresh-name counter used by adornment, materialization, and argument
// normalisation.
type Program struct {
	Relations *program.RelationTable
	Clauses   []*Clause
	// Queries lists the relations a consumer wants answers for — the seed
	// worklist for AdornDatabase (spec §4.6.3).
	Queries []program.RelationRef
	IDs     program.IDGen
}

// NewProgram creates an empty rule-IR program with a fresh relation table.
func NewProgram() *Program {
	return &Program{Relations: program.NewRelationTable()}
}

// ClausesFor returns every clause whose head relation matches ref, in
// program order.
func (p *Program) ClausesFor(ref program.RelationRef) []*Clause {
	var out []*Clause
	for _, c := range p.Clauses {
		if c.Head.Relation == ref {
			out = append(out, c)
		}
	}
	return out
}

// Clone deep-copies the whole program: the relation table, every clause,
// the query list, and the id generator's current counter value.
func (p *Program) Clone() *Program {
	clauses := make([]*Clause, len(p.Clauses))
	for i, c := range p.Clauses {
		clauses[i] = c.Clone()
	}
	queries := make([]program.RelationRef, len(p.Queries))
	copy(queries, p.Queries)
	return &Program{
		Relations: p.Relations.Clone(),
		Clauses:   clauses,
		Queries:   queries,
		IDs:       p.IDs.Clone(),
	}
}
