// Package traverse provides the two read/write tree-walking primitives
// spec §4.1 calls for: a read-only Visitor and an ownership-transferring
// NodeMapper, plus small structural helpers (child accessors for
// Expression and Condition) used by the analyses and passes built on top.
//
// File organization:
//   - operation.go: Visitor and NodeMapper over ra.Operation trees
//   - children.go: child accessors for ra.Expression and ra.Condition
package traverse

import "github.com/CloudDataLab/souffle/ir/ra"

// VisitOperations walks op and every operation reachable through InnerOp,
// depth-first, invoking visit on each node before descending into its
// child (pre-order). It never mutates the tree.
func VisitOperations(op ra.Operation, visit func(ra.Operation)) {
	for op != nil {
		visit(op)
		op = op.InnerOp()
	}
}

// OperationMapper is a function from an owned Operation to an owned,
// possibly-new Operation. Implementations must not retain a reference
// into the input after returning — ownership transfers to the caller.
type OperationMapper func(ra.Operation) ra.Operation

// Map applies m to op and then, recursively, to the child of whatever node
// m returns (spec §4.1): m is offered each node before descent. A node that
// has a child is rebuilt through WithInner, which returns a shallow copy, so
// the output never shares such a node with the input; a terminal node
// (Project, Return) that m returns unchanged is shared by both trees. If m
// returns nil, Map returns nil for that subtree.
func Map(op ra.Operation, m OperationMapper) ra.Operation {
	if op == nil {
		return nil
	}
	mapped := m(op)
	if mapped == nil {
		return nil
	}
	inner := mapped.InnerOp()
	if inner == nil {
		return mapped
	}
	return mapped.WithInner(Map(inner, m))
}

// Lambda adapts a plain func(ra.Operation) ra.Operation into an
// OperationMapper, mirroring the teacher's LambdaNodeMapper: an ad-hoc
// rewrite expressed as a closure rather than a named type.
func Lambda(f func(ra.Operation) ra.Operation) OperationMapper {
	return OperationMapper(f)
}
