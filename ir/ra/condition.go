package ra

import "github.com/CloudDataLab/souffle/diag"

// CompareOp enumerates the operators a Constraint condition may use.
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

// Condition is the tagged-variant union for RA-IR filter conditions.
type Condition interface {
	isCondition()
	CloneCondition() Condition
	EqualCondition(other Condition) bool
}

// Conjunction is stored verbose (spec §3.1): trees are right-leaning
// chains, never rebalanced, so conjuncts can be enumerated by repeated
// left-descent in left-to-right order. Left is conventionally the
// "already visited" head and Right the rest of the chain, matching the
// nested-Filter shape condition leveling expects as its precondition.
type Conjunction struct {
	Left  Condition
	Right Condition
}

func (*Conjunction) isCondition() {}

// CloneCondition implements Condition.
func (c *Conjunction) CloneCondition() Condition {
	return &Conjunction{Left: c.Left.CloneCondition(), Right: c.Right.CloneCondition()}
}

// EqualCondition implements Condition.
func (c *Conjunction) EqualCondition(other Condition) bool {
	o, ok := other.(*Conjunction)
	return ok && c.Left.EqualCondition(o.Left) && c.Right.EqualCondition(o.Right)
}

// Conjuncts flattens a verbose conjunction into its conjuncts, left to
// right. A non-Conjunction condition yields itself as a single-element
// slice.
func Conjuncts(c Condition) []Condition {
	var out []Condition
	for {
		conj, ok := c.(*Conjunction)
		if !ok {
			return append(out, c)
		}
		out = append(out, conj.Left)
		c = conj.Right
	}
}

// And builds a (possibly nil) verbose conjunction of conditions in order.
// And(nil...) returns nil, meaning "no condition" (callers should treat a
// nil Condition as "always true" and must not wrap it in a Filter).
func And(conds ...Condition) Condition {
	var nonNil []Condition
	for _, c := range conds {
		if c != nil {
			nonNil = append(nonNil, c)
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	result := nonNil[len(nonNil)-1]
	for i := len(nonNil) - 2; i >= 0; i-- {
		result = &Conjunction{Left: nonNil[i], Right: result}
	}
	return result
}

// Negation is the logical negation of a Condition.
type Negation struct {
	Condition Condition
}

func (*Negation) isCondition() {}

// CloneCondition implements Condition.
func (n *Negation) CloneCondition() Condition {
	return &Negation{Condition: n.Condition.CloneCondition()}
}

// EqualCondition implements Condition.
func (n *Negation) EqualCondition(other Condition) bool {
	o, ok := other.(*Negation)
	return ok && n.Condition.EqualCondition(o.Condition)
}

// Constraint is a binary comparison between two expressions.
type Constraint struct {
	Op  CompareOp
	LHS Expression
	RHS Expression
}

func (*Constraint) isCondition() {}

// CloneCondition implements Condition.
func (c *Constraint) CloneCondition() Condition {
	return &Constraint{Op: c.Op, LHS: c.LHS.CloneExpression(), RHS: c.RHS.CloneExpression()}
}

// EqualCondition implements Condition.
func (c *Constraint) EqualCondition(other Condition) bool {
	o, ok := other.(*Constraint)
	return ok && c.Op == o.Op && c.LHS.EqualExpression(o.LHS) && c.RHS.EqualExpression(o.RHS)
}

// EmptinessCheck is true iff Relation has zero tuples. ConvertExistenceChecks
// produces this for a plain Scan collapsed into a non-emptiness test.
type EmptinessCheck struct {
	Relation RelationHandle
	// Note carries the collapsed Scan's profile/debug annotation forward
	// (spec §6: such notes must be preserved across rewrites even when
	// the node they were attached to stops existing).
	Note *diag.Note
}

func (*EmptinessCheck) isCondition() {}

// CloneCondition implements Condition.
func (e *EmptinessCheck) CloneCondition() Condition {
	return &EmptinessCheck{Relation: e.Relation, Note: e.Note.Clone()}
}

// EqualCondition implements Condition.
func (e *EmptinessCheck) EqualCondition(other Condition) bool {
	o, ok := other.(*EmptinessCheck)
	return ok && e.Relation == o.Relation
}

// ExistenceCheck is true iff Relation has at least one tuple matching
// Pattern. ConvertExistenceChecks produces this for an IndexScan collapsed
// into an existence test, reusing the already-captured pattern.
type ExistenceCheck struct {
	Relation RelationHandle
	Pattern  []Expression // nil element at position i means "unbound"
	// Note carries the collapsed IndexScan's profile/debug annotation
	// forward, like EmptinessCheck.Note.
	Note *diag.Note
}

func (*ExistenceCheck) isCondition() {}

// CloneCondition implements Condition.
func (e *ExistenceCheck) CloneCondition() Condition {
	pattern := make([]Expression, len(e.Pattern))
	for i, p := range e.Pattern {
		if p != nil {
			pattern[i] = p.CloneExpression()
		}
	}
	return &ExistenceCheck{Relation: e.Relation, Pattern: pattern, Note: e.Note.Clone()}
}

// EqualCondition implements Condition.
func (e *ExistenceCheck) EqualCondition(other Condition) bool {
	o, ok := other.(*ExistenceCheck)
	if !ok || e.Relation != o.Relation || len(e.Pattern) != len(o.Pattern) {
		return false
	}
	for i := range e.Pattern {
		if (e.Pattern[i] == nil) != (o.Pattern[i] == nil) {
			return false
		}
		if e.Pattern[i] != nil && !e.Pattern[i].EqualExpression(o.Pattern[i]) {
			return false
		}
	}
	return true
}
