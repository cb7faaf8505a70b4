package main

import (
	"github.com/wirebind/mixin"
)

// Demo capability set used to exercise every storage layout the engine
// picks. Each record is deliberately tiny; the point is the schema shape,
// not the payload.

type idRec struct{ ID uint64 }
type nameRec struct{ Name string }
type tagRec struct{ Tags []string }
type statRec struct{ Hits uint64 }
type noteRec struct{ Notes []string }
type linkRec struct{ URLs []string }
type attrRec struct{ Attrs map[string]string }
type flagRec struct{ Flags uint32 }
type markRec struct{ Marks []byte }
type credRec struct{ Token string }

type identified struct{ mixin.Cap[idRec] }
type named struct{ mixin.Cap[nameRec] }
type tagged struct{ mixin.Cap[tagRec] }
type counted struct{ mixin.Cap[statRec] }
type annotated struct{ mixin.Cap[noteRec] }
type linked struct{ mixin.Cap[linkRec] }
type attributed struct{ mixin.Cap[attrRec] }
type flagged struct{ mixin.Cap[flagRec] }
type marked struct{ mixin.Cap[markRec] }
type cached struct{ mixin.LazyCap[noteRec] }
type authorized struct{ mixin.ExplicitCap[credRec] }

// widget composes nothing; its schema has zero slots.
type widget struct {
	mixin.Base
}

// token carries exactly one capability.
type token struct {
	mixin.Base
	identified
}

// account lands in the short comparison chain.
type account struct {
	mixin.Base
	identified
	named
	tagged
}

// document lands in the long comparison chain.
type document struct {
	mixin.Base
	identified
	named
	tagged
	counted
	annotated
	linked
}

// workspace carries enough capabilities to force the map layout.
type workspace struct {
	mixin.Base
	identified
	named
	tagged
	counted
	annotated
	linked
	attributed
	flagged
	marked
}

// session mixes eager, lazy and explicit slots, forcing the deferred
// layout regardless of slot count.
type session struct {
	mixin.Base
	identified
	cached
	authorized
}

// demoHosts maps a short name to a sample value of each demo host type.
// Describing a value builds and caches its schema.
var demoHosts = map[string]any{
	"widget":    &widget{},
	"token":     &token{},
	"account":   &account{},
	"document":  &document{},
	"workspace": &workspace{},
	"session":   &session{},
}
