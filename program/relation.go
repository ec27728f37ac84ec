// Package program provides the cross-IR plumbing shared by the rule-IR and
// RA-IR trees: a relation arena addressed by small integer handles, and a
// per-translation-unit fresh-name counter.
//
// File organization:
//   - relation.go: Relation metadata and the RelationTable arena
//   - idgen.go: fresh variable/relation name generation
//   - invariant.go: the typed "programmer error" used by core passes
package program

import "fmt"

// RelationRef is a small integer handle into a RelationTable. It is never an
// owning reference — the Relation it names lives in the table, not in the
// node that holds the handle. This replaces the teacher's RelationReference
// (a raw pointer into a Program-owned Relation), per the "cyclic
// parent/child references" design note.
type RelationRef int

// InvalidRelationRef is never a valid table index.
const InvalidRelationRef RelationRef = -1

// Relation describes one relation known to a translation unit: a qualified
// name, its arity, and whether it is read from outside the unit (Input),
// written for consumption outside the unit (Output), or purely internal.
type Relation struct {
	Name         string
	Arity        int
	Input        bool
	Output       bool
	Intermediate bool
}

func (r Relation) String() string {
	return fmt.Sprintf("%s/%d", r.Name, r.Arity)
}

// RelationTable is the arena that owns every Relation in a translation
// unit. Passes never copy a Relation by value across ownership boundaries;
// they look it up by RelationRef.
type RelationTable struct {
	relations []Relation
	byName    map[string]RelationRef
}

// NewRelationTable creates an empty arena.
func NewRelationTable() *RelationTable {
	return &RelationTable{byName: make(map[string]RelationRef)}
}

// Declare adds a new relation and returns its handle. If a relation with
// the same name already exists, its handle is returned unchanged (Declare
// is idempotent on name).
func (t *RelationTable) Declare(rel Relation) RelationRef {
	if ref, ok := t.byName[rel.Name]; ok {
		return ref
	}
	ref := RelationRef(len(t.relations))
	t.relations = append(t.relations, rel)
	t.byName[rel.Name] = ref
	return ref
}

// Lookup resolves a handle to its Relation. Panics (via Invariantf) if the
// handle is out of range — that is always a programmer error, never a
// recoverable condition at this layer.
func (t *RelationTable) Lookup(ref RelationRef) Relation {
	if ref < 0 || int(ref) >= len(t.relations) {
		panic(Invariantf(StructuralViolation, "relation handle %d out of range (table has %d entries)", ref, len(t.relations)))
	}
	return t.relations[ref]
}

// Resolve finds the handle for a relation name, if declared.
func (t *RelationTable) Resolve(name string) (RelationRef, bool) {
	ref, ok := t.byName[name]
	return ref, ok
}

// Update replaces the Relation stored at ref (e.g. flipping its Output flag
// during NormaliseDatabase's I/O partitioning).
func (t *RelationTable) Update(ref RelationRef, rel Relation) {
	if ref < 0 || int(ref) >= len(t.relations) {
		panic(Invariantf(StructuralViolation, "relation handle %d out of range (table has %d entries)", ref, len(t.relations)))
	}
	t.relations[int(ref)] = rel
	t.byName[rel.Name] = ref
}

// All returns a copy of every declared relation, in declaration order; a
// relation's index in the result is its RelationRef. Mutating the result
// does not affect the table.
func (t *RelationTable) All() []Relation {
	out := make([]Relation, len(t.relations))
	copy(out, t.relations)
	return out
}

// Clone deep-copies the table, for use when an owning Program is cloned.
func (t *RelationTable) Clone() *RelationTable {
	clone := &RelationTable{
		relations: make([]Relation, len(t.relations)),
		byName:    make(map[string]RelationRef, len(t.byName)),
	}
	copy(clone.relations, t.relations)
	for k, v := range t.byName {
		clone.byName[k] = v
	}
	return clone
}
