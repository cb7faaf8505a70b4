package mixin

import (
	"reflect"
	"testing"
)

// sink keeps the compiler from eliding the resolve under test.
var sink any

type plainPerson struct {
	name string
}

func BenchmarkBaselineFieldAccess(b *testing.B) {
	p := &plainPerson{name: "mark"}
	for i := 0; i < b.N; i++ {
		sink = p.name
	}
}

func benchResolve(b *testing.B, h Host, rt reflect.Type) {
	b.Helper()
	st := MustNew(h)
	if _, err := st.Get(rt); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec, err := st.Get(rt)
		if err != nil {
			b.Fatal(err)
		}
		sink = rec
	}
}

func BenchmarkResolveSolo(b *testing.B) {
	benchResolve(b, &host1{}, reflect.TypeOf(rec1{}))
}

func BenchmarkResolveQuadFirst(b *testing.B) {
	benchResolve(b, &host4{}, reflect.TypeOf(rec1{}))
}

func BenchmarkResolveQuadLast(b *testing.B) {
	benchResolve(b, &host4{}, reflect.TypeOf(rec4{}))
}

func BenchmarkResolveOctoLast(b *testing.B) {
	benchResolve(b, &host8{}, reflect.TypeOf(rec8{}))
}

func BenchmarkResolveTable(b *testing.B) {
	benchResolve(b, &host9{}, reflect.TypeOf(rec9{}))
}

func BenchmarkResolveLazyPopulated(b *testing.B) {
	benchResolve(b, &racer{}, reflect.TypeOf(raceRecord{}))
}

func BenchmarkResolveGeneric(b *testing.B) {
	p := newPerson("mark")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec, err := Resolve[nameRecord](p)
		if err != nil {
			b.Fatal(err)
		}
		sink = rec
	}
}

func BenchmarkCapabilityMethod(b *testing.B) {
	p := newPerson("mark")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sink = p.Name()
	}
}

func BenchmarkNewPerInstance(b *testing.B) {
	// Schema is memoized; this measures per-instance allocation and
	// binding only.
	MustNew(&person{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := &person{}
		MustNew(p)
		sink = p
	}
}
