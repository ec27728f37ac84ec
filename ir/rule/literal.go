package rule

import "github.com/CloudDataLab/souffle/program"

// Literal is the tagged-variant union of what can appear in a clause body:
// an Atom, a Negation of an Atom, or a BinaryConstraint. Re-architected as
// a closed interface (spec §9 "Polymorphic IR nodes") rather than virtual
// dispatch with downcasts — dispatch is by type switch, never downcasting.
type Literal interface {
	isLiteral()
	CloneLiteral() Literal
	EqualLiteral(other Literal) bool
}

// Atom is a relation application: Relation(Args...). It appears both as a
// clause head and, undecorated, as a body literal.
type Atom struct {
	Relation program.RelationRef
	Args     []Argument
}

func (*Atom) isLiteral() {}

// Clone deep-copies an Atom.
func (a *Atom) Clone() *Atom {
	if a == nil {
		return nil
	}
	args := make([]Argument, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.CloneArgument()
	}
	return &Atom{Relation: a.Relation, Args: args}
}

// CloneLiteral implements Literal.
func (a *Atom) CloneLiteral() Literal { return a.Clone() }

// Equal reports structural equality between two Atoms.
func (a *Atom) Equal(other *Atom) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.Relation != other.Relation || len(a.Args) != len(other.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].EqualArgument(other.Args[i]) {
			return false
		}
	}
	return true
}

// EqualLiteral implements Literal.
func (a *Atom) EqualLiteral(other Literal) bool {
	o, ok := other.(*Atom)
	return ok && a.Equal(o)
}

// Variables returns every Variable argument of the atom, in argument
// order, duplicates included (callers that need a set should dedupe).
func (a *Atom) Variables() []Variable {
	var out []Variable
	for _, arg := range a.Args {
		if v, ok := arg.(Variable); ok {
			out = append(out, v)
		}
	}
	return out
}

// Negation wraps an Atom that must NOT hold for the clause to fire.
type Negation struct {
	Atom *Atom
}

func (*Negation) isLiteral() {}

// CloneLiteral implements Literal.
func (n *Negation) CloneLiteral() Literal {
	return &Negation{Atom: n.Atom.Clone()}
}

// EqualLiteral implements Literal.
func (n *Negation) EqualLiteral(other Literal) bool {
	o, ok := other.(*Negation)
	return ok && n.Atom.Equal(o.Atom)
}

// BinaryConstraint is a comparison between two Arguments, e.g. the EQ
// constraints NormaliseDatabase introduces to lift nested arguments.
type BinaryConstraint struct {
	Op  CompareOp
	LHS Argument
	RHS Argument
}

func (*BinaryConstraint) isLiteral() {}

// CloneLiteral implements Literal.
func (b *BinaryConstraint) CloneLiteral() Literal {
	return &BinaryConstraint{Op: b.Op, LHS: b.LHS.CloneArgument(), RHS: b.RHS.CloneArgument()}
}

// EqualLiteral implements Literal.
func (b *BinaryConstraint) EqualLiteral(other Literal) bool {
	o, ok := other.(*BinaryConstraint)
	if !ok || b.Op != o.Op {
		return false
	}
	return b.LHS.EqualArgument(o.LHS) && b.RHS.EqualArgument(o.RHS)
}

// IsEquality reports whether this is an EQ constraint binding a bare
// Variable to a right-hand side, the shape NormaliseDatabase and the
// BindingStore both depend on.
func (b *BinaryConstraint) IsEquality() (Variable, Argument, bool) {
	if b.Op != EQ {
		return Variable{}, nil, false
	}
	if v, ok := b.LHS.(Variable); ok {
		return v, b.RHS, true
	}
	if v, ok := b.RHS.(Variable); ok {
		return v, b.LHS, true
	}
	return Variable{}, nil, false
}
