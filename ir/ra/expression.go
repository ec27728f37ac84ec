// Package ra implements the low-level relational-algebra IR: nested
// search/filter/projection trees over relations (spec §3.1). This is the
// tree package raopt's three passes (LevelConditions, CreateIndices,
// ConvertExistenceChecks) rewrite.
//
// File organization:
//   - expression.go: Expression union (ElementAccess, Const, operators, PackRecord)
//   - condition.go: Condition union (Conjunction, Negation, Constraint, EmptinessCheck, ExistenceCheck)
//   - operation.go: Operation union (Search{Scan,IndexScan}, Filter, Project, UnpackRecord, Return)
//   - program.go: Query, Statement, Program
package ra

// Identifier names a Search by its nesting depth (0 at outermost). Outer
// is the sentinel meaning "no search dependency" used by level analysis.
type Identifier int

// Outer is the sentinel level meaning a node depends on no enclosing
// search and is safe to evaluate before any loop (spec §4.2).
const Outer Identifier = -1

// Expression is the tagged-variant union for RA-IR value expressions.
type Expression interface {
	isExpression()
	CloneExpression() Expression
	EqualExpression(other Expression) bool
}

// ElementAccess reads column Column of the tuple bound by the search
// identified by Identifier.
type ElementAccess struct {
	Identifier Identifier
	Column     int
}

func (ElementAccess) isExpression() {}

// CloneExpression implements Expression.
func (e ElementAccess) CloneExpression() Expression { return e }

// EqualExpression implements Expression.
func (e ElementAccess) EqualExpression(other Expression) bool {
	o, ok := other.(ElementAccess)
	return ok && e == o
}

// Const is a literal numeric, string, or boolean value.
type Const struct {
	Value any
}

func (Const) isExpression() {}

// CloneExpression implements Expression.
func (c Const) CloneExpression() Expression { return c }

// EqualExpression implements Expression.
func (c Const) EqualExpression(other Expression) bool {
	o, ok := other.(Const)
	return ok && c.Value == o.Value
}

// IntrinsicOperator applies a built-in operator (arithmetic, string, ...)
// that the core treats as pure and side-effect free.
type IntrinsicOperator struct {
	Op   string
	Args []Expression
}

func (*IntrinsicOperator) isExpression() {}

// CloneExpression implements Expression.
func (o *IntrinsicOperator) CloneExpression() Expression {
	args := make([]Expression, len(o.Args))
	for i, a := range o.Args {
		args[i] = a.CloneExpression()
	}
	return &IntrinsicOperator{Op: o.Op, Args: args}
}

// EqualExpression implements Expression.
func (o *IntrinsicOperator) EqualExpression(other Expression) bool {
	v, ok := other.(*IntrinsicOperator)
	if !ok || o.Op != v.Op || len(o.Args) != len(v.Args) {
		return false
	}
	for i := range o.Args {
		if !o.Args[i].EqualExpression(v.Args[i]) {
			return false
		}
	}
	return true
}

// UserDefinedOperator applies a named, externally-defined function. Pure
// reports whether it is free of side effects. Its zero value is false, so a
// UserDefinedOperator built without setting Pure counts as impure, and
// ConvertExistenceChecks refuses to collapse a search that contains it.
type UserDefinedOperator struct {
	Name string
	Args []Expression
	Pure bool
}

func (*UserDefinedOperator) isExpression() {}

// CloneExpression implements Expression.
func (o *UserDefinedOperator) CloneExpression() Expression {
	args := make([]Expression, len(o.Args))
	for i, a := range o.Args {
		args[i] = a.CloneExpression()
	}
	return &UserDefinedOperator{Name: o.Name, Args: args, Pure: o.Pure}
}

// EqualExpression implements Expression.
func (o *UserDefinedOperator) EqualExpression(other Expression) bool {
	v, ok := other.(*UserDefinedOperator)
	if !ok || o.Name != v.Name || o.Pure != v.Pure || len(o.Args) != len(v.Args) {
		return false
	}
	for i := range o.Args {
		if !o.Args[i].EqualExpression(v.Args[i]) {
			return false
		}
	}
	return true
}

// PackRecord constructs a record value from a fixed argument list.
type PackRecord struct {
	Args []Expression
}

func (*PackRecord) isExpression() {}

// CloneExpression implements Expression.
func (p *PackRecord) CloneExpression() Expression {
	args := make([]Expression, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.CloneExpression()
	}
	return &PackRecord{Args: args}
}

// EqualExpression implements Expression.
func (p *PackRecord) EqualExpression(other Expression) bool {
	v, ok := other.(*PackRecord)
	if !ok || len(p.Args) != len(v.Args) {
		return false
	}
	for i := range p.Args {
		if !p.Args[i].EqualExpression(v.Args[i]) {
			return false
		}
	}
	return true
}
