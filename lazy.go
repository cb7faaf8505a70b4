package mixin

import (
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wirebind/mixin/errors"
)

// slotBox wraps a populated record so slot occupancy can be tracked with a
// single atomic pointer: nil is Empty, the container's own sentinel box is
// InProgress, and any other box is Populated and terminal.
type slotBox struct {
	rec any
}

// lazyState serves host types with deferred slots. Each slot moves through
// Empty -> InProgress -> Populated exactly once. The fast path is one
// atomic load; construction runs under that slot's own lock, so first
// resolves of different slots on the same instance never contend.
type lazyState struct {
	sch     *schema
	slots   []atomic.Pointer[slotBox]
	locks   []sync.Mutex
	claimed slotBox // sentinel; its address marks a slot as InProgress
}

func newLazyState(sch *schema) *lazyState {
	n := len(sch.slots)
	return &lazyState{
		sch:   sch,
		slots: make([]atomic.Pointer[slotBox], n),
		locks: make([]sync.Mutex, n),
	}
}

func (d *lazyState) get(rt reflect.Type) (any, error) {
	idx, ok := d.sch.index[rt]
	if !ok {
		return nil, errors.NotComposed(errors.PhaseResolve, d.sch.host.String(), rt.String())
	}
	if box := d.slots[idx].Load(); box != nil && box != &d.claimed {
		return box.rec, nil
	}
	return d.ensure(idx, rt)
}

// ensure populates a slot at most once. Losers of the construction race
// block on the slot's lock and re-read; every caller returns the one
// record instance the winner installed.
func (d *lazyState) ensure(idx int, rt reflect.Type) (any, error) {
	d.locks[idx].Lock()
	defer d.locks[idx].Unlock()

	if box := d.slots[idx].Load(); box != nil && box != &d.claimed {
		return box.rec, nil
	}

	if d.sch.slots[idx].mode == slotExplicit {
		// No default exists. The slot stays Empty so a construction-time
		// supply still works after the caller handles this.
		return nil, errors.NotInitialized(d.sch.host.String(), rt.String())
	}

	// Claim the slot before constructing so a racing Supply fails with
	// already_supplied instead of silently losing to the default. Supply
	// is lock-free, so it may still win between the re-read above and the
	// claim; the sentinel is only ever installed under this lock, so a
	// failed claim always means a supplied record is already in place.
	if !d.slots[idx].CompareAndSwap(nil, &d.claimed) {
		return d.slots[idx].Load().rec, nil
	}

	rec := newRecord(rt)
	d.slots[idx].Store(&slotBox{rec: rec})

	Logger().Debug("deferred record constructed",
		zap.String("host", d.sch.host.String()),
		zap.String("record", rt.String()),
	)
	return rec, nil
}

func (d *lazyState) supply(rt reflect.Type, rec any) error {
	idx, ok := d.sch.index[rt]
	if !ok {
		return errors.NotComposed(errors.PhaseSupply, d.sch.host.String(), rt.String())
	}
	// Empty -> Populated directly; anything else means the slot was
	// already claimed or filled.
	if !d.slots[idx].CompareAndSwap(nil, &slotBox{rec: rec}) {
		return errors.AlreadySupplied(d.sch.host.String(), rt.String())
	}
	return nil
}
