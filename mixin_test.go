package mixin

import (
	stderrors "errors"
	"sync/atomic"
	"testing"

	"github.com/wirebind/mixin/errors"
)

// Identity capability: each record draws a fresh id on construction.

var nextIdentity atomic.Int64

type identityRecord struct {
	id int64
}

func (r *identityRecord) Init() { r.id = nextIdentity.Add(1) }

type identified struct {
	Cap[identityRecord]
}

func (c *identified) Identity() int64 { return c.MustRecord().id }

// Naming capability: a mutable string.

type nameRecord struct {
	name string
}

type named struct {
	Cap[nameRecord]
}

func (c *named) Name() string        { return c.MustRecord().name }
func (c *named) SetName(name string) { c.MustRecord().name = name }

type person struct {
	Base
	identified
	named
}

func newPerson(name string) *person {
	p := &person{}
	MustNew(p)
	p.SetName(name)
	return p
}

func TestComposition_EndToEnd(t *testing.T) {
	a := newPerson("mark")
	b := newPerson("falco")

	if a.Name() != "mark" {
		t.Fatalf("a.Name() = %q, want mark", a.Name())
	}
	if b.Name() != "falco" {
		t.Fatalf("b.Name() = %q, want falco", b.Name())
	}
	if a.Identity() == 0 || b.Identity() == 0 {
		t.Fatal("identities not assigned")
	}
	if a.Identity() == b.Identity() {
		t.Fatalf("instances share identity %d", a.Identity())
	}
}

func TestInstances_DoNotShareRecords(t *testing.T) {
	a := newPerson("a")
	b := newPerson("b")

	ra, err := Resolve[nameRecord](a)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := Resolve[nameRecord](b)
	if err != nil {
		t.Fatal(err)
	}
	if ra == rb {
		t.Fatal("two instances share a record")
	}

	ra.name = "changed"
	if b.Name() != "b" {
		t.Fatalf("mutating a's record changed b's to %q", b.Name())
	}
}

func TestResolve_ViaHostInterface(t *testing.T) {
	p := newPerson("mark")

	rec, err := Resolve[identityRecord](p)
	if err != nil {
		t.Fatal(err)
	}
	if rec.id != p.Identity() {
		t.Fatalf("Resolve returned id %d, capability reports %d", rec.id, p.Identity())
	}
}

func TestResolve_NotComposed(t *testing.T) {
	p := newPerson("mark")

	type strangerRecord struct{ n int }
	if _, err := Resolve[strangerRecord](p); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindNotComposed}) {
		t.Fatalf("err = %v, want not_composed", err)
	}
}

// A host that cannot embed Base implements Mixins directly.
type session struct {
	named
	st *State
}

func (s *session) Mixins() *State { return s.st }

func TestHost_WithoutBase(t *testing.T) {
	s := &session{}
	st, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	s.st = st

	s.SetName("manual")
	if s.Name() != "manual" {
		t.Fatalf("Name() = %q", s.Name())
	}
}

func TestCapability_UnboundBeforeNew(t *testing.T) {
	p := &person{} // New never called

	_, err := p.identified.Record()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindUnbound}) {
		t.Fatalf("err = %v, want unbound", err)
	}
}

func TestNew_RejectsBadHosts(t *testing.T) {
	target := &errors.Error{Phase: errors.PhaseInit, Kind: errors.KindBadHost}

	if _, err := New(nil); !stderrors.Is(err, target) {
		t.Fatalf("New(nil) err = %v, want bad_host", err)
	}
	if _, err := New(person{}); !stderrors.Is(err, target) {
		t.Fatalf("New(value) err = %v, want bad_host", err)
	}
	if _, err := New((*person)(nil)); !stderrors.Is(err, target) {
		t.Fatalf("New(nil ptr) err = %v, want bad_host", err)
	}
	n := 7
	if _, err := New(&n); !stderrors.Is(err, target) {
		t.Fatalf("New(*int) err = %v, want bad_host", err)
	}
}
