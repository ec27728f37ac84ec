package rule

// Argument is the tagged-variant union for clause arguments: Variable,
// Constant, RecordInit, Functor, or Aggregator (spec §3.2).
type Argument interface {
	isArgument()
	CloneArgument() Argument
	EqualArgument(other Argument) bool
}

// Variable names a clause-local binding. Value equality (not pointer
// identity) is what matters: two Variable{Name: "x"} values are the same
// variable.
type Variable struct {
	Name string
}

func (Variable) isArgument() {}

// CloneArgument implements Argument. Variable is a value type, so cloning
// is a no-op copy.
func (v Variable) CloneArgument() Argument { return v }

// EqualArgument implements Argument.
func (v Variable) EqualArgument(other Argument) bool {
	o, ok := other.(Variable)
	return ok && v.Name == o.Name
}

// Constant carries a literal value (number, string, boolean, ...).
type Constant struct {
	Value any
}

func (Constant) isArgument() {}

// CloneArgument implements Argument.
func (c Constant) CloneArgument() Argument { return c }

// EqualArgument implements Argument.
func (c Constant) EqualArgument(other Argument) bool {
	o, ok := other.(Constant)
	return ok && c.Value == o.Value
}

// RecordInit constructs a record value from a fixed list of field
// arguments, e.g. (rec ?a 3) in the surface syntax. NormaliseDatabase lifts any RecordInit
// nested inside an Atom's argument list into a fresh Variable plus an EQ
// constraint binding that variable to the RecordInit.
type RecordInit struct {
	Fields []Argument
}

func (*RecordInit) isArgument() {}

// CloneArgument implements Argument.
func (r *RecordInit) CloneArgument() Argument {
	fields := make([]Argument, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = f.CloneArgument()
	}
	return &RecordInit{Fields: fields}
}

// EqualArgument implements Argument.
func (r *RecordInit) EqualArgument(other Argument) bool {
	o, ok := other.(*RecordInit)
	if !ok || len(r.Fields) != len(o.Fields) {
		return false
	}
	for i := range r.Fields {
		if !r.Fields[i].EqualArgument(o.Fields[i]) {
			return false
		}
	}
	return true
}

// Functor applies a named function to a list of arguments, e.g. f(?x, 1).
// Like RecordInit, NormaliseDatabase lifts any nested Functor into a fresh
// Variable bound by an EQ constraint.
type Functor struct {
	Name string
	Args []Argument
}

func (*Functor) isArgument() {}

// CloneArgument implements Argument.
func (f *Functor) CloneArgument() Argument {
	args := make([]Argument, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.CloneArgument()
	}
	return &Functor{Name: f.Name, Args: args}
}

// EqualArgument implements Argument.
func (f *Functor) EqualArgument(other Argument) bool {
	o, ok := other.(*Functor)
	if !ok || f.Name != o.Name || len(f.Args) != len(o.Args) {
		return false
	}
	for i := range f.Args {
		if !f.Args[i].EqualArgument(o.Args[i]) {
			return false
		}
	}
	return true
}

// Aggregator produces a bound value from an operator applied to a
// sub-query: an optional Target expression (the value aggregated — absent
// for e.g. count(*)) evaluated once per row of Body, a literal list
// expressing the rows to aggregate over (spec §3.2, §4.7).
type Aggregator struct {
	Op     string
	Target Argument // nil when the aggregate has no target expression
	Body   []Literal
}

func (*Aggregator) isArgument() {}

// CloneArgument implements Argument.
func (a *Aggregator) CloneArgument() Argument {
	var target Argument
	if a.Target != nil {
		target = a.Target.CloneArgument()
	}
	body := make([]Literal, len(a.Body))
	for i, lit := range a.Body {
		body[i] = lit.CloneLiteral()
	}
	return &Aggregator{Op: a.Op, Target: target, Body: body}
}

// EqualArgument implements Argument.
func (a *Aggregator) EqualArgument(other Argument) bool {
	o, ok := other.(*Aggregator)
	if !ok || a.Op != o.Op || len(a.Body) != len(o.Body) {
		return false
	}
	if (a.Target == nil) != (o.Target == nil) {
		return false
	}
	if a.Target != nil && !a.Target.EqualArgument(o.Target) {
		return false
	}
	for i := range a.Body {
		if !a.Body[i].EqualLiteral(o.Body[i]) {
			return false
		}
	}
	return true
}

// TargetVariables returns every Variable referenced anywhere inside the
// Aggregator's Target expression, used by UniqueAggregationVariables
// (spec §4.7) to decide which names need renaming.
func (a *Aggregator) TargetVariables() []Variable {
	if a.Target == nil {
		return nil
	}
	return collectVariables(a.Target)
}

// collectVariables walks an Argument tree and returns every Variable found.
func collectVariables(arg Argument) []Variable {
	switch v := arg.(type) {
	case Variable:
		return []Variable{v}
	case Constant:
		return nil
	case *RecordInit:
		var out []Variable
		for _, f := range v.Fields {
			out = append(out, collectVariables(f)...)
		}
		return out
	case *Functor:
		var out []Variable
		for _, f := range v.Args {
			out = append(out, collectVariables(f)...)
		}
		return out
	case *Aggregator:
		// A nested aggregator's own body variables are its own scope; only
		// its target expression participates in the enclosing collection.
		if v.Target != nil {
			return collectVariables(v.Target)
		}
		return nil
	default:
		return nil
	}
}
