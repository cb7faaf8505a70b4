package mixin

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wirebind/mixin/errors"
)

// slot is one stable storage location within a host type's schema.
type slot struct {
	record reflect.Type
	owner  reflect.Type
	mode   slotMode
}

// schema is the per-host-type description of slots, their record types and
// the chosen storage layout. Built once per host type, immutable after,
// cached for the process's lifetime.
type schema struct {
	host     reflect.Type
	slots    []slot
	index    map[reflect.Type]int
	cellOffs []uintptr
	baseOff  uintptr
	hasBase  bool
	layout   layout

	// Slot record types lifted into direct fields so the comparison-chain
	// layouts dispatch without touching the slice or the map. Shared here
	// rather than copied per instance to keep State small.
	t0, t1, t2, t3, t4, t5, t6, t7 reflect.Type
}

// schemas memoizes one schema per host type. Populated on first use, never
// evicted: the set of host types is closed for a running process. Racing
// first uses may both build; LoadOrStore retains exactly one.
var schemas sync.Map // reflect.Type -> *schema

func schemaOf(t reflect.Type) (*schema, error) {
	if s, ok := schemas.Load(t); ok {
		return s.(*schema), nil
	}
	built, err := buildSchema(t)
	if err != nil {
		return nil, err
	}
	actual, _ := schemas.LoadOrStore(t, built)
	return actual.(*schema), nil
}

// buildSchema walks the host type's capability graph and assembles its
// schema: slots in first-discovered order, validation of the record set,
// and the storage layout for the slot count.
func buildSchema(t reflect.Type) (*schema, error) {
	walked, err := walkHost(t)
	if err != nil {
		return nil, err
	}

	sch := &schema{
		host:    t,
		index:   make(map[reflect.Type]int),
		baseOff: walked.baseOff,
		hasBase: walked.hasBase,
	}

	deferred := false
	for _, site := range walked.sites {
		sch.cellOffs = append(sch.cellOffs, site.off)

		if site.record.Kind() != reflect.Struct {
			return nil, errors.New(errors.PhaseBuild, errors.KindBadRecord).
				Host(t.String()).
				Record(site.record.String()).
				Path(site.trail...).
				Detail("record type must be a struct").
				Build()
		}

		if prev, ok := sch.index[site.record]; ok {
			// Diamond: a record reachable through several paths gets one
			// slot. Every path must agree on how the record is built.
			if sch.slots[prev].mode != site.mode {
				return nil, errors.ModeConflict(t.String(), site.record.String(), site.trail)
			}
			continue
		}

		sch.index[site.record] = len(sch.slots)
		sch.slots = append(sch.slots, slot{record: site.record, owner: site.owner, mode: site.mode})
		if site.mode != slotEager {
			deferred = true
		}
	}

	for _, sl := range sch.slots {
		if emb := embeddedRecord(sl.record, sl.record, sch.index); emb != nil {
			return nil, errors.Diamond(t.String(), sl.record.String(), emb.String())
		}
	}

	sch.layout = chooseLayout(len(sch.slots), deferred)

	chain := []*reflect.Type{&sch.t0, &sch.t1, &sch.t2, &sch.t3, &sch.t4, &sch.t5, &sch.t6, &sch.t7}
	for i := 0; i < len(sch.slots) && i < len(chain); i++ {
		*chain[i] = sch.slots[i].record
	}

	Logger().Debug("schema built",
		zap.String("host", t.String()),
		zap.Int("slots", len(sch.slots)),
		zap.String("layout", sch.layout.String()),
	)
	return sch, nil
}

// embeddedRecord walks a record type's anonymous fields and returns the
// first other composed record type it embeds, if any. Such embedding would
// alias one capability's state into another, which is exactly the diamond
// problem this engine exists to rule out.
func embeddedRecord(root, t reflect.Type, composed map[reflect.Type]int) reflect.Type {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() != reflect.Struct {
			continue
		}
		if ft != root {
			if _, ok := composed[ft]; ok {
				return ft
			}
		}
		if emb := embeddedRecord(root, ft, composed); emb != nil {
			return emb
		}
	}
	return nil
}

// SlotInfo describes one slot of a cached schema.
type SlotInfo struct {
	Index  int
	Record string
	Owner  string
	Mode   string
}

// SchemaInfo is a diagnostic snapshot of one host type's schema.
type SchemaInfo struct {
	Host   string
	Layout string
	Slots  []SlotInfo
}

func (sch *schema) info() SchemaInfo {
	info := SchemaInfo{
		Host:   sch.host.String(),
		Layout: sch.layout.String(),
	}
	for i, sl := range sch.slots {
		info.Slots = append(info.Slots, SlotInfo{
			Index:  i,
			Record: sl.record.String(),
			Owner:  sl.owner.String(),
			Mode:   sl.mode.String(),
		})
	}
	return info
}

// String renders the snapshot as a compact one-line-per-slot summary.
func (info SchemaInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %d slots)", info.Host, info.Layout, len(info.Slots))
	for _, sl := range info.Slots {
		fmt.Fprintf(&b, "\n  [%d] %s %s via %s", sl.Index, sl.Mode, sl.Record, sl.Owner)
	}
	return b.String()
}

// Describe returns the schema snapshot for the given host value's type,
// building and caching the schema if this is the type's first use.
func Describe(host any) (SchemaInfo, error) {
	sch, _, err := schemaForHost(host)
	if err != nil {
		return SchemaInfo{}, err
	}
	return sch.info(), nil
}

// CachedSchemas returns snapshots of every schema built so far, sorted by
// host type name. Intended for diagnostics and tooling; the engine itself
// never iterates the cache.
func CachedSchemas() []SchemaInfo {
	var infos []SchemaInfo
	schemas.Range(func(_, v any) bool {
		infos = append(infos, v.(*schema).info())
		return true
	})
	sort.Slice(infos, func(i, j int) bool { return infos[i].Host < infos[j].Host })
	return infos
}
