package ra

import "github.com/CloudDataLab/souffle/program"

// RelationHandle is the arena handle a Scan/IndexScan/EmptinessCheck/
// ExistenceCheck uses to name the Relation it operates over. It resolves
// through the owning Program's shared program.RelationTable.
type RelationHandle = program.RelationRef

// Query owns a single Operation subtree — the root of one query's plan.
type Query struct {
	Operation Operation
}

// Clone deep-copies a Query.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	return &Query{Operation: q.Operation.CloneOperation()}
}

// Equal reports structural equality between two queries.
func (q *Query) Equal(other *Query) bool {
	if q == nil || other == nil {
		return q == other
	}
	return q.Operation.EqualOperation(other.Operation)
}

// Statement is the tagged-variant union for the RA-IR program root: either
// a Sequence of statements or a single Query.
type Statement interface {
	isStatement()
	CloneStatement() Statement
}

// Sequence runs its Statements in order.
type Sequence struct {
	Statements []Statement
}

func (*Sequence) isStatement() {}

// CloneStatement implements Statement.
func (s *Sequence) CloneStatement() Statement {
	out := make([]Statement, len(s.Statements))
	for i, st := range s.Statements {
		out[i] = st.CloneStatement()
	}
	return &Sequence{Statements: out}
}

// QueryStatement wraps a single Query as a Statement.
type QueryStatement struct {
	Query *Query
}

func (*QueryStatement) isStatement() {}

// CloneStatement implements Statement.
func (q *QueryStatement) CloneStatement() Statement {
	return &QueryStatement{Query: q.Query.Clone()}
}

// Queries walks a Statement tree and returns every Query it contains, in
// left-to-right, depth-first order. Every raopt pass operates
// per-Query, so this is the standard entry point for "for each Query in
// the program".
func Queries(stmt Statement) []*Query {
	switch s := stmt.(type) {
	case *QueryStatement:
		return []*Query{s.Query}
	case *Sequence:
		var out []*Query
		for _, sub := range s.Statements {
			out = append(out, Queries(sub)...)
		}
		return out
	default:
		return nil
	}
}

// ReplaceQueries rewrites every Query reachable from stmt using f, in the
// same order Queries would visit them, and returns the rewritten
// statement tree. Ownership of the input tree transfers to the result;
// callers must not retain references into stmt afterward.
func ReplaceQueries(stmt Statement, f func(*Query) *Query) Statement {
	switch s := stmt.(type) {
	case *QueryStatement:
		return &QueryStatement{Query: f(s.Query)}
	case *Sequence:
		out := make([]Statement, len(s.Statements))
		for i, sub := range s.Statements {
			out[i] = ReplaceQueries(sub, f)
		}
		return &Sequence{Statements: out}
	default:
		return stmt
	}
}

// Program is the root of an RA-IR translation unit: a Statement tree (one
// or more Query roots) plus the shared relation arena and fresh-name
// counter used by passes that must mint synthetic relations or variables.
type Program struct {
	Root      Statement
	Relations *program.RelationTable
	IDs       program.IDGen
}

// NewProgram creates an empty RA-IR program with a fresh relation table.
func NewProgram(root Statement) *Program {
	return &Program{Root: root, Relations: program.NewRelationTable()}
}

// Queries returns every Query in the program, in traversal order.
func (p *Program) Queries() []*Query {
	return Queries(p.Root)
}
