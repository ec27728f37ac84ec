package ra

import "github.com/CloudDataLab/souffle/diag"

// Operation is the tagged-variant union of RA-IR operation nodes. Unary
// operations (Filter, Scan, IndexScan, UnpackRecord) own a single Inner
// operation; terminal operations (Project, Return) own none (spec §3.1).
type Operation interface {
	isOperation()
	CloneOperation() Operation
	EqualOperation(other Operation) bool
	// InnerOp returns the single child operation, or nil for a terminal
	// operation. Used by the generic traversal combinator in package
	// traverse so it doesn't need a type switch per call site.
	InnerOp() Operation
	// WithInner returns a shallow copy of the receiver with its child
	// replaced, or panics if called on a terminal operation.
	WithInner(inner Operation) Operation
}

// Search is the common shape of Scan and IndexScan: a loop that introduces
// identifier Identifier, ranging over Relation, running Inner once per
// bound tuple.
type Search interface {
	Operation
	SearchIdentifier() Identifier
	SearchRelation() RelationHandle
	SearchNote() *diag.Note
}

// Scan is a full scan of a Relation.
type Scan struct {
	Identifier Identifier
	Relation   RelationHandle
	Inner      Operation
	Note       *diag.Note
}

func (*Scan) isOperation() {}

// InnerOp implements Operation.
func (s *Scan) InnerOp() Operation { return s.Inner }

// WithInner implements Operation.
func (s *Scan) WithInner(inner Operation) Operation {
	clone := *s
	clone.Inner = inner
	return &clone
}

// SearchIdentifier implements Search.
func (s *Scan) SearchIdentifier() Identifier { return s.Identifier }

// SearchRelation implements Search.
func (s *Scan) SearchRelation() RelationHandle { return s.Relation }

// SearchNote implements Search.
func (s *Scan) SearchNote() *diag.Note { return s.Note }

// CloneOperation implements Operation.
func (s *Scan) CloneOperation() Operation {
	return &Scan{Identifier: s.Identifier, Relation: s.Relation, Inner: s.Inner.CloneOperation(), Note: s.Note.Clone()}
}

// EqualOperation implements Operation.
func (s *Scan) EqualOperation(other Operation) bool {
	o, ok := other.(*Scan)
	return ok && s.Identifier == o.Identifier && s.Relation == o.Relation && s.Inner.EqualOperation(o.Inner)
}

// IndexScan is a scan of Relation restricted by Pattern: Pattern[i] == nil
// means column i is unbound; a non-nil Expression means "column i equals
// this value", computed outside the scan (level < Identifier).
type IndexScan struct {
	Identifier Identifier
	Relation   RelationHandle
	Pattern    []Expression
	Inner      Operation
	Note       *diag.Note
}

func (*IndexScan) isOperation() {}

// InnerOp implements Operation.
func (s *IndexScan) InnerOp() Operation { return s.Inner }

// WithInner implements Operation.
func (s *IndexScan) WithInner(inner Operation) Operation {
	clone := *s
	clone.Inner = inner
	return &clone
}

// SearchIdentifier implements Search.
func (s *IndexScan) SearchIdentifier() Identifier { return s.Identifier }

// SearchRelation implements Search.
func (s *IndexScan) SearchRelation() RelationHandle { return s.Relation }

// SearchNote implements Search.
func (s *IndexScan) SearchNote() *diag.Note { return s.Note }

// CloneOperation implements Operation.
func (s *IndexScan) CloneOperation() Operation {
	pattern := make([]Expression, len(s.Pattern))
	for i, p := range s.Pattern {
		if p != nil {
			pattern[i] = p.CloneExpression()
		}
	}
	return &IndexScan{Identifier: s.Identifier, Relation: s.Relation, Pattern: pattern, Inner: s.Inner.CloneOperation(), Note: s.Note.Clone()}
}

// EqualOperation implements Operation.
func (s *IndexScan) EqualOperation(other Operation) bool {
	o, ok := other.(*IndexScan)
	if !ok || s.Identifier != o.Identifier || s.Relation != o.Relation || len(s.Pattern) != len(o.Pattern) {
		return false
	}
	for i := range s.Pattern {
		if (s.Pattern[i] == nil) != (o.Pattern[i] == nil) {
			return false
		}
		if s.Pattern[i] != nil && !s.Pattern[i].EqualExpression(o.Pattern[i]) {
			return false
		}
	}
	return s.Inner.EqualOperation(o.Inner)
}

// Filter guards Inner with Condition: "if Condition then Inner".
type Filter struct {
	Condition Condition
	Inner     Operation
}

func (*Filter) isOperation() {}

// InnerOp implements Operation.
func (f *Filter) InnerOp() Operation { return f.Inner }

// WithInner implements Operation.
func (f *Filter) WithInner(inner Operation) Operation {
	clone := *f
	clone.Inner = inner
	return &clone
}

// CloneOperation implements Operation.
func (f *Filter) CloneOperation() Operation {
	return &Filter{Condition: f.Condition.CloneCondition(), Inner: f.Inner.CloneOperation()}
}

// EqualOperation implements Operation.
func (f *Filter) EqualOperation(other Operation) bool {
	o, ok := other.(*Filter)
	return ok && f.Condition.EqualCondition(o.Condition) && f.Inner.EqualOperation(o.Inner)
}

// UnpackRecord destructures a record-valued Expression's fields into the
// tuple Inner sees.
type UnpackRecord struct {
	Record Expression
	Inner  Operation
}

func (*UnpackRecord) isOperation() {}

// InnerOp implements Operation.
func (u *UnpackRecord) InnerOp() Operation { return u.Inner }

// WithInner implements Operation.
func (u *UnpackRecord) WithInner(inner Operation) Operation {
	clone := *u
	clone.Inner = inner
	return &clone
}

// CloneOperation implements Operation.
func (u *UnpackRecord) CloneOperation() Operation {
	return &UnpackRecord{Record: u.Record.CloneExpression(), Inner: u.Inner.CloneOperation()}
}

// EqualOperation implements Operation.
func (u *UnpackRecord) EqualOperation(other Operation) bool {
	o, ok := other.(*UnpackRecord)
	return ok && u.Record.EqualExpression(o.Record) && u.Inner.EqualOperation(o.Inner)
}

// Project is a terminal operation emitting Values as the result tuple.
type Project struct {
	Values []Expression
}

func (*Project) isOperation() {}

// InnerOp implements Operation; Project is terminal.
func (p *Project) InnerOp() Operation { return nil }

// WithInner implements Operation; panics, since Project has no child.
func (p *Project) WithInner(Operation) Operation {
	panic("ra: Project is a terminal operation and has no Inner to replace")
}

// CloneOperation implements Operation.
func (p *Project) CloneOperation() Operation {
	values := make([]Expression, len(p.Values))
	for i, v := range p.Values {
		values[i] = v.CloneExpression()
	}
	return &Project{Values: values}
}

// EqualOperation implements Operation.
func (p *Project) EqualOperation(other Operation) bool {
	o, ok := other.(*Project)
	if !ok || len(p.Values) != len(o.Values) {
		return false
	}
	for i := range p.Values {
		if !p.Values[i].EqualExpression(o.Values[i]) {
			return false
		}
	}
	return true
}

// Return is a terminal operation yielding a single scalar Value, used by
// materialized aggregation queries (spec §4.7) whose body computes one
// value rather than projecting a tuple stream.
type Return struct {
	Value Expression
}

func (*Return) isOperation() {}

// InnerOp implements Operation; Return is terminal.
func (r *Return) InnerOp() Operation { return nil }

// WithInner implements Operation; panics, since Return has no child.
func (r *Return) WithInner(Operation) Operation {
	panic("ra: Return is a terminal operation and has no Inner to replace")
}

// CloneOperation implements Operation.
func (r *Return) CloneOperation() Operation {
	return &Return{Value: r.Value.CloneExpression()}
}

// EqualOperation implements Operation.
func (r *Return) EqualOperation(other Operation) bool {
	o, ok := other.(*Return)
	return ok && r.Value.EqualExpression(o.Value)
}
