package mixin

import (
	"reflect"
	"unsafe"

	"github.com/wirebind/mixin/errors"
)

// Host is implemented by any type that composes capability modules.
//
// This is the only method a host must expose; capability behavior is
// written purely in terms of resolving records against the returned State
// and never touches its internals. Embedding Base provides it for free;
// hosts that cannot embed Base implement it by storing the *State returned
// from New:
//
//	type Session struct {
//		legacy.Conn
//		Named
//		st *mixin.State
//	}
//
//	func (s *Session) Mixins() *mixin.State { return s.st }
type Host interface {
	Mixins() *State
}

// Base is an optional embeddable Host implementation.
// New wires it automatically when present.
type Base struct {
	st *State
}

// Mixins implements Host.
func (b *Base) Mixins() *State { return b.st }

// Initializer is implemented by record types whose default construction
// involves more than the zero value, such as drawing an identity from a
// shared counter. Init runs exactly once, right after the record is
// allocated, for eager and lazily constructed records alike. It does not
// run for explicitly supplied records.
type Initializer interface {
	Init()
}

// cell is the storage shared by every capability cell kind. It is bound to
// the host's State during New.
type cell struct {
	st *State
}

func (c *cell) bindState(s *State) { c.st = s }

// capCell is the contract the walker discovers capability cells by.
type capCell interface {
	bindState(*State)
	capRecord() reflect.Type
	capMode() slotMode
}

// Cap declares an eager capability: the record is default-constructed when
// the host instance is initialized, and resolving it is a pure read.
//
// Embed Cap in a capability struct and write the capability's behavior
// against Record:
//
//	type Odometer struct {
//		mixin.Cap[OdometerRecord]
//	}
//
//	func (o *Odometer) Add(km uint64) { o.MustRecord().Total += km }
type Cap[R any] struct {
	cell
}

func (c *Cap[R]) capRecord() reflect.Type { return reflect.TypeFor[R]() }
func (c *Cap[R]) capMode() slotMode       { return slotEager }

// Record resolves this capability's record from the host's State.
// It fails if the host was never passed to New.
func (c *Cap[R]) Record() (*R, error) {
	if c.st == nil {
		return nil, errors.Unbound(errors.PhaseResolve, reflect.TypeFor[R]().String())
	}
	v, err := c.st.Get(reflect.TypeFor[R]())
	if err != nil {
		return nil, err
	}
	return v.(*R), nil
}

// MustRecord is like Record but panics on failure. Capability behavior
// methods typically use it: once a host is initialized, resolution of an
// eager or defaulted record cannot fail.
func (c *Cap[R]) MustRecord() *R {
	r, err := c.Record()
	if err != nil {
		panic(err)
	}
	return r
}

// LazyCap declares a deferred capability with a default: the record is
// constructed at most once on first resolve, unless an instance was
// supplied during host construction. Composing any LazyCap (or
// ExplicitCap) moves the whole host onto the synchronized lazy layout.
type LazyCap[R any] struct {
	Cap[R]
}

func (c *LazyCap[R]) capMode() slotMode { return slotLazy }

// ExplicitCap declares a deferred capability with no default: the record
// must be supplied during host construction, and resolving it beforehand
// returns a not_initialized error.
type ExplicitCap[R any] struct {
	Cap[R]
}

func (c *ExplicitCap[R]) capMode() slotMode { return slotExplicit }

// New initializes a host: it builds (or reuses) the schema for the host's
// type, allocates the per-instance State, binds every composed capability
// cell, and installs the given records into their deferred slots.
//
// host must be a non-nil pointer to a struct. Records are supplied in
// order; supplying a slot twice, or a record type the host does not
// compose, fails. New must run before any capability method is called,
// normally inside the host's constructor.
func New(host any, records ...any) (*State, error) {
	sch, base, err := schemaForHost(host)
	if err != nil {
		return nil, err
	}

	st := sch.newState()
	sch.bind(base, st)

	for _, rec := range records {
		if err := st.Supply(rec); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// MustNew is like New but panics on failure. Intended for hosts whose
// composition is known-good, where failure would be a programming error.
func MustNew(host any, records ...any) *State {
	st, err := New(host, records...)
	if err != nil {
		panic(err)
	}
	return st
}

// Resolve returns the host's record of type R.
//
// It fails with a not_composed error if R is not part of the host type's
// capability set, and with a not_initialized error if R backs an
// ExplicitCap slot that was never supplied.
func Resolve[R any](h Host) (*R, error) {
	st := h.Mixins()
	if st == nil {
		return nil, errors.Unbound(errors.PhaseResolve, reflect.TypeFor[R]().String())
	}
	v, err := st.Get(reflect.TypeFor[R]())
	if err != nil {
		return nil, err
	}
	return v.(*R), nil
}

// Supply installs a caller-constructed record into its slot. It is meant
// to be called during host construction only, before the record's first
// resolve; a slot accepts at most one record.
func Supply[R any](h Host, rec *R) error {
	st := h.Mixins()
	if st == nil {
		return errors.Unbound(errors.PhaseSupply, reflect.TypeFor[R]().String())
	}
	return st.Supply(rec)
}

// schemaForHost validates the host value and returns the memoized schema
// for its type along with the host's base address for cell binding.
func schemaForHost(host any) (*schema, unsafe.Pointer, error) {
	if host == nil {
		return nil, nil, errors.BadHost(errors.PhaseInit, "", "host must be a non-nil pointer to a struct")
	}
	v := reflect.ValueOf(host)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, nil, errors.BadHost(errors.PhaseInit, reflect.TypeOf(host).String(), "host must be a non-nil pointer to a struct")
	}

	sch, err := schemaOf(v.Elem().Type())
	if err != nil {
		return nil, nil, err
	}
	return sch, v.UnsafePointer(), nil
}

// bind points every capability cell (and the Base, when embedded) at the
// instance's State. Offsets were computed once at schema build, so binding
// is a handful of direct stores.
func (sch *schema) bind(base unsafe.Pointer, st *State) {
	for _, off := range sch.cellOffs {
		(*cell)(unsafe.Add(base, off)).st = st
	}
	if sch.hasBase {
		(*Base)(unsafe.Add(base, sch.baseOff)).st = st
	}
}
