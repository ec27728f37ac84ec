package program

import "fmt"

// IDGen is a monotonic, per-translation-unit counter used to mint fresh
// variable and relation names during adornment, materialization, and
// argument normalisation. It is deliberately an instance field embedded in
// a Program, never a package-level global — unlike the teacher's
// process-wide sync.Map interning (datalog/intern.go), a compiler pass must
// not leak naming decisions across unrelated compilation units.
type IDGen struct {
	next uint64
}

// Fresh mints a new name of the form "prefix$N", with N counting up from
// 0, so one IDGen never mints the same name twice. The surface-syntax
// lexer accepts '$' inside identifiers, so a source-level name of the same
// shape is not ruled out.
func (g *IDGen) Fresh(prefix string) string {
	n := g.next
	g.next++
	return fmt.Sprintf("%s$%d", prefix, n)
}

// Clone copies the counter's current value, so the clone never re-mints a
// name its source minted before the Clone call. From then on the two
// counters advance independently and mint the same names in the same order.
func (g *IDGen) Clone() IDGen {
	return IDGen{next: g.next}
}
