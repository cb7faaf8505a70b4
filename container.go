package mixin

import (
	"reflect"

	"github.com/wirebind/mixin/errors"
)

// State is the per-instance container for all of a host's capability
// records. One State exists per host instance; it holds at most one record
// per slot, and a reader never observes a partially constructed record.
//
// A State is safe for concurrent use.
type State struct {
	sch *schema
	d   dispatcher
}

// Get resolves the record stored for the given record type.
func (s *State) Get(record reflect.Type) (any, error) {
	return s.d.get(record)
}

// Supply installs a caller-constructed record into its slot. The record
// must be a non-nil pointer to a composed record type, the slot must still
// be empty, and the slot must be deferred (eager slots are populated at
// initialization and can never accept a supplied record).
func (s *State) Supply(rec any) error {
	t := reflect.TypeOf(rec)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct || reflect.ValueOf(rec).IsNil() {
		return errors.New(errors.PhaseSupply, errors.KindBadRecord).
			Host(s.sch.host.String()).
			Detail("supplied record must be a non-nil pointer to a record struct").
			Build()
	}
	return s.d.supply(t.Elem(), rec)
}

// Describe returns the schema snapshot backing this State.
func (s *State) Describe() SchemaInfo {
	return s.sch.info()
}

// dispatcher is the storage variant behind a State. The concrete type is
// picked once per host type by chooseLayout; every variant is a closed,
// enumerable case.
type dispatcher interface {
	get(rt reflect.Type) (any, error)
	supply(rt reflect.Type, rec any) error
}

// newState allocates a State using the schema's layout. Eager layouts
// construct every record up front, in slot order, so their resolves are
// pure reads with no synchronization.
func (sch *schema) newState() *State {
	st := &State{sch: sch}
	switch sch.layout {
	case layoutSolo:
		st.d = &soloState{sch: sch, rec: newRecord(sch.slots[0].record)}
	case layoutQuad:
		d := &quadState{sch: sch}
		for i, rec := range sch.eagerRecords() {
			switch i {
			case 0:
				d.r0 = rec
			case 1:
				d.r1 = rec
			case 2:
				d.r2 = rec
			case 3:
				d.r3 = rec
			}
		}
		st.d = d
	case layoutOcto:
		d := &octoState{sch: sch}
		for i, rec := range sch.eagerRecords() {
			switch i {
			case 0:
				d.r0 = rec
			case 1:
				d.r1 = rec
			case 2:
				d.r2 = rec
			case 3:
				d.r3 = rec
			case 4:
				d.r4 = rec
			case 5:
				d.r5 = rec
			case 6:
				d.r6 = rec
			case 7:
				d.r7 = rec
			}
		}
		st.d = d
	case layoutTable:
		st.d = &tableState{sch: sch, recs: sch.eagerRecords()}
	case layoutLazy:
		st.d = newLazyState(sch)
	default:
		st.d = &emptyState{sch: sch}
	}
	return st
}

// eagerRecords default-constructs one record per slot, in slot order.
func (sch *schema) eagerRecords() []any {
	recs := make([]any, len(sch.slots))
	for i, sl := range sch.slots {
		recs[i] = newRecord(sl.record)
	}
	return recs
}

// newRecord default-constructs a record: zero value plus the Initializer
// hook for records whose defaults carry logic.
func newRecord(rt reflect.Type) any {
	rec := reflect.New(rt).Interface()
	if ini, ok := rec.(Initializer); ok {
		ini.Init()
	}
	return rec
}

// eagerSupply is the supply path shared by all eager variants: the slot is
// either unknown or already populated.
func eagerSupply(sch *schema, rt reflect.Type) error {
	if _, ok := sch.index[rt]; !ok {
		return errors.NotComposed(errors.PhaseSupply, sch.host.String(), rt.String())
	}
	return errors.AlreadySupplied(sch.host.String(), rt.String())
}

// emptyState serves host types that compose no capabilities.
type emptyState struct {
	sch *schema
}

func (d *emptyState) get(rt reflect.Type) (any, error) {
	return nil, errors.NotComposed(errors.PhaseResolve, d.sch.host.String(), rt.String())
}

func (d *emptyState) supply(rt reflect.Type, _ any) error {
	return errors.NotComposed(errors.PhaseSupply, d.sch.host.String(), rt.String())
}

// soloState is the most common case: a single capability. The container
// is, in effect, the record itself.
type soloState struct {
	sch *schema
	rec any
}

func (d *soloState) get(rt reflect.Type) (any, error) {
	if rt == d.sch.t0 {
		return d.rec, nil
	}
	return nil, errors.NotComposed(errors.PhaseResolve, d.sch.host.String(), rt.String())
}

func (d *soloState) supply(rt reflect.Type, _ any) error {
	return eagerSupply(d.sch, rt)
}

// quadState holds 2-4 records in direct fields and resolves through a
// short identity-comparison chain. Only the schema pointer is shared, to
// keep the per-instance footprint at the records themselves.
type quadState struct {
	sch            *schema
	r0, r1, r2, r3 any
}

func (d *quadState) get(rt reflect.Type) (any, error) {
	switch rt {
	case d.sch.t0:
		return d.r0, nil
	case d.sch.t1:
		return d.r1, nil
	case d.sch.t2:
		return d.r2, nil
	case d.sch.t3:
		return d.r3, nil
	}
	return nil, errors.NotComposed(errors.PhaseResolve, d.sch.host.String(), rt.String())
}

func (d *quadState) supply(rt reflect.Type, _ any) error {
	return eagerSupply(d.sch, rt)
}

// octoState is quadState's wider sibling for 5-8 slots.
type octoState struct {
	sch                            *schema
	r0, r1, r2, r3, r4, r5, r6, r7 any
}

func (d *octoState) get(rt reflect.Type) (any, error) {
	switch rt {
	case d.sch.t0:
		return d.r0, nil
	case d.sch.t1:
		return d.r1, nil
	case d.sch.t2:
		return d.r2, nil
	case d.sch.t3:
		return d.r3, nil
	case d.sch.t4:
		return d.r4, nil
	case d.sch.t5:
		return d.r5, nil
	case d.sch.t6:
		return d.r6, nil
	case d.sch.t7:
		return d.r7, nil
	}
	return nil, errors.NotComposed(errors.PhaseResolve, d.sch.host.String(), rt.String())
}

func (d *octoState) supply(rt reflect.Type, _ any) error {
	return eagerSupply(d.sch, rt)
}

// tableState serves large compositions: records in a slice indexed through
// the schema's shared slot table. Bounded lookup cost at any slot count.
type tableState struct {
	sch  *schema
	recs []any
}

func (d *tableState) get(rt reflect.Type) (any, error) {
	idx, ok := d.sch.index[rt]
	if !ok {
		return nil, errors.NotComposed(errors.PhaseResolve, d.sch.host.String(), rt.String())
	}
	return d.recs[idx], nil
}

func (d *tableState) supply(rt reflect.Type, _ any) error {
	return eagerSupply(d.sch, rt)
}
