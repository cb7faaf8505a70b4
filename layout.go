package mixin

// slotMode describes how a slot's record comes into being.
type slotMode uint8

const (
	slotEager    slotMode = iota // default-constructed at host initialization
	slotLazy                     // default-constructed on first resolve, or supplied
	slotExplicit                 // no default; must be supplied
)

func (m slotMode) String() string {
	switch m {
	case slotEager:
		return "eager"
	case slotLazy:
		return "lazy"
	case slotExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// layout is the storage/dispatch strategy chosen once per host type.
//
// For small, statically bounded slot counts an identity-comparison chain
// beats a map lookup on both footprint and branch predictability; the
// crossover to table dispatch happens only past eight slots. Any deferred
// slot forces the synchronized lazy layout regardless of count.
type layout uint8

const (
	layoutEmpty layout = iota // no capabilities; resolve always fails
	layoutSolo                // one slot; resolve is an identity return
	layoutQuad                // 2-4 slots; short comparison chain
	layoutOcto                // 5-8 slots; wide comparison chain
	layoutTable               // >8 slots; index-table lookup
	layoutLazy                // deferred slots; CAS-guarded array
)

func (l layout) String() string {
	switch l {
	case layoutEmpty:
		return "empty"
	case layoutSolo:
		return "solo"
	case layoutQuad:
		return "quad"
	case layoutOcto:
		return "octo"
	case layoutTable:
		return "table"
	case layoutLazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// chooseLayout selects the storage layout for a slot count.
func chooseLayout(n int, deferred bool) layout {
	switch {
	case deferred:
		return layoutLazy
	case n == 0:
		return layoutEmpty
	case n == 1:
		return layoutSolo
	case n <= 4:
		return layoutQuad
	case n <= 8:
		return layoutOcto
	default:
		return layoutTable
	}
}
