// Package mixin composes independently authored capability modules onto
// host types without the classical diamond-inheritance problem, with
// per-resolve overhead approaching direct field access.
//
// A capability module is a struct that embeds a capability cell and carries
// behavior methods; its private per-instance data lives in a record type
// owned by the cell. Hosts compose capabilities by plain struct embedding:
//
//	type NameRecord struct{ Name string }
//
//	type Named struct {
//		mixin.Cap[NameRecord]
//	}
//
//	func (n *Named) Name() string         { return n.MustRecord().Name }
//	func (n *Named) SetName(name string)  { n.MustRecord().Name = name }
//
//	type Person struct {
//		mixin.Base
//		Named
//	}
//
//	p := &Person{}
//	mixin.MustNew(p)
//	p.SetName("mark")
//
// Composition follows Go embedding: only anonymous fields take part in
// the capability walk. A capability held in a named field is not part of
// the host's schema; its cell is never bound, and its methods fail with
// an unbound error. A named field may still hold a whole host, which is
// its own composition root and is initialized by its own New call.
//
// # Architecture Overview
//
// The engine is organized around four cooperating pieces:
//
//	walker.go      Capability graph walker: collects the deduplicated set
//	               of capability cells reachable through embedding
//	schema.go      Schema builder: one immutable, memoized schema per host
//	               type, with a stable slot per record type
//	layout.go      Strategy specializer: picks a storage layout from the
//	               slot count (identity chains for small sets, an index
//	               table for large ones, a lazy variant for deferred slots)
//	container.go   Per-instance State holding the slot values
//	lazy.go        Deferred slots: at-most-once construction under
//	               concurrent first access
//
// # Cell kinds
//
// Cap[R] is eager: the record is built when the host is initialized.
// LazyCap[R] defers construction to first use, or to an explicit supply
// during host construction. ExplicitCap[R] has no default at all: the
// record must be supplied, and resolving it beforehand is an error.
//
// # Diamonds
//
// A capability may embed other capabilities. When two capabilities reach a
// common dependency, the host holds exactly one record for it: slots are
// keyed by record type, so every path resolves to the same instance.
// Record types must not embed one another; the schema build rejects
// declarations that would re-create duplicated ancestor state.
//
// # Thread Safety
//
// Schemas are built at most once per host type and shared; racing first
// uses converge on one retained schema. A State is safe for concurrent use.
// Deferred slots guarantee exactly one record construction per slot even
// under arbitrary concurrent first access, with per-slot locking so
// initialization of different slots never contends.
package mixin
