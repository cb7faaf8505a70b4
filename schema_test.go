package mixin

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wirebind/mixin/errors"
)

func TestSchema_Memoized(t *testing.T) {
	a, err := schemaOf(reflect.TypeOf(person{}))
	if err != nil {
		t.Fatal(err)
	}
	b, err := schemaOf(reflect.TypeOf(person{}))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("two lookups returned different schema instances")
	}
}

func TestSchema_SlotOrderIsDeclarationOrder(t *testing.T) {
	sch, err := schemaOf(reflect.TypeOf(person{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(sch.slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(sch.slots))
	}
	if sch.slots[0].record != reflect.TypeOf(identityRecord{}) {
		t.Fatalf("slot 0 = %v, want identityRecord", sch.slots[0].record)
	}
	if sch.slots[1].record != reflect.TypeOf(nameRecord{}) {
		t.Fatalf("slot 1 = %v, want nameRecord", sch.slots[1].record)
	}
	if sch.t0 != sch.slots[0].record || sch.t1 != sch.slots[1].record {
		t.Fatal("comparison chain types disagree with slot order")
	}
}

// Mode conflict: one record type declared eager on one path and lazy on
// another has no coherent construction strategy.

type conflictEager struct {
	Cap[engineRecord]
}

type conflictLazy struct {
	LazyCap[engineRecord]
}

type conflictHost struct {
	Base
	conflictEager
	conflictLazy
}

func TestSchema_RejectsModeConflict(t *testing.T) {
	_, err := New(&conflictHost{})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBuild, Kind: errors.KindModeConflict}) {
		t.Fatalf("err = %v, want mode_conflict", err)
	}
}

// Record embedding another composed record type re-creates the diamond
// problem and must fail the build.

type parentRecord struct {
	n int
}

type childRecord struct {
	parentRecord
}

type parentCap struct {
	Cap[parentRecord]
}

type childCap struct {
	Cap[childRecord]
}

type diamondHost struct {
	Base
	parentCap
	childCap
}

func TestSchema_RejectsRecordEmbedding(t *testing.T) {
	_, err := New(&diamondHost{})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBuild, Kind: errors.KindDiamond}) {
		t.Fatalf("err = %v, want diamond", err)
	}
}

func TestSchema_RejectsNonStructRecord(t *testing.T) {
	type counterHost struct {
		Base
		Cap[int]
	}

	_, err := New(&counterHost{})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseBuild, Kind: errors.KindBadRecord}) {
		t.Fatalf("err = %v, want bad_record", err)
	}
}

type pointerHost struct {
	Base
	*named
}

func TestSchema_RejectsPointerEmbedding(t *testing.T) {
	_, err := New(&pointerHost{})
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseWalk, Kind: errors.KindBadHost}) {
		t.Fatalf("err = %v, want bad_host", err)
	}
}

func TestDescribe(t *testing.T) {
	info, err := Describe(&person{})
	if err != nil {
		t.Fatal(err)
	}
	if info.Layout != "quad" {
		t.Fatalf("layout = %q, want quad", info.Layout)
	}
	if len(info.Slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(info.Slots))
	}
	if info.Slots[0].Mode != "eager" {
		t.Fatalf("slot 0 mode = %q, want eager", info.Slots[0].Mode)
	}
	if info.Slots[0].Index != 0 || info.Slots[1].Index != 1 {
		t.Fatal("slot indices not stable")
	}
}

func TestCachedSchemas(t *testing.T) {
	if _, err := Describe(&person{}); err != nil {
		t.Fatal(err)
	}

	infos := CachedSchemas()
	found := false
	for _, info := range infos {
		if info.Host == reflect.TypeOf(person{}).String() {
			found = true
		}
	}
	if !found {
		t.Fatal("person schema missing from cache snapshot")
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Host > infos[i].Host {
			t.Fatal("snapshot not sorted by host")
		}
	}
}
