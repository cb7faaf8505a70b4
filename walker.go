package mixin

import (
	"reflect"
	"strings"

	"github.com/wirebind/mixin/errors"
)

// capSite is one discovered capability cell within a host type: where it
// lives, what record backs it, and how that record is constructed.
// The same record type may be reached through several sites (the diamond
// shape); sites share a slot, never duplicate it.
type capSite struct {
	record reflect.Type
	owner  reflect.Type
	trail  []string
	off    uintptr
	mode   slotMode
}

// walkResult is the flattened capability graph of one host type.
type walkResult struct {
	sites   []capSite
	baseOff uintptr
	hasBase bool
}

var baseType = reflect.TypeOf(Base{})

// mixinPkg identifies this package's own types during the walk.
var mixinPkg = baseType.PkgPath()

// isCell reports whether t is one of the capability cell generics
// (Cap, LazyCap, ExplicitCap) as opposed to a user capability struct that
// merely embeds one.
func isCell(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.PkgPath() != mixinPkg {
		return false
	}
	name := t.Name()
	return strings.HasPrefix(name, "Cap[") ||
		strings.HasPrefix(name, "LazyCap[") ||
		strings.HasPrefix(name, "ExplicitCap[")
}

// containsCells reports whether t's embedding subtree declares any
// capability cell. Used only to reject unsupported shapes with a precise
// error rather than silently ignoring them.
func containsCells(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	if isCell(t) {
		return true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && containsCells(f.Type) {
			return true
		}
	}
	return false
}

// walkHost transitively collects every capability cell the host type
// composes. Pure function of the type: the walk follows anonymous struct
// fields only, in declaration order, so two walks of the same type yield
// identical site sequences. Value embedding cannot form cycles (Go rejects
// recursive struct values), so termination is structural.
func walkHost(host reflect.Type) (*walkResult, error) {
	res := &walkResult{}
	if err := walkStruct(host, host, 0, nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func walkStruct(host, t reflect.Type, off uintptr, trail []string, res *walkResult) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		switch {
		case ft == baseType:
			if !res.hasBase {
				res.baseOff = off + f.Offset
				res.hasBase = true
			}

		case ft.Kind() == reflect.Pointer:
			// Pointer embedding breaks both the offset-based binding and
			// the acyclicity argument, so shapes that would smuggle cells
			// in through a pointer are rejected outright.
			if containsCells(ft) {
				return errors.New(errors.PhaseWalk, errors.KindBadHost).
					Host(host.String()).
					Path(append(trail, ft.Elem().Name())...).
					Detail("capability modules must be embedded by value, not by pointer").
					Build()
			}

		case isCell(ft):
			c := reflect.New(ft).Interface().(capCell)
			res.sites = append(res.sites, capSite{
				record: c.capRecord(),
				owner:  t,
				trail:  append(append([]string(nil), trail...), ft.Name()),
				off:    off + f.Offset,
				mode:   c.capMode(),
			})

		case ft.Kind() == reflect.Struct:
			// Capability module or plain embedded struct; either way the
			// cells, if any, are further down.
			if err := walkStruct(host, ft, off+f.Offset, append(trail, ft.Name()), res); err != nil {
				return err
			}
		}
	}
	return nil
}
