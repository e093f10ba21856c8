package emit

import (
	"github.com/dave/jennifer/jen"

	"gobind/internal/graph"
)

type slotEntry struct {
	key  string
	conv string // runtime convention constant name
}

// slotEntries lists every raw-callable slot a type needs, in graph
// order: functions, field accessor pairs, then one cast pair per
// ancestor level. Cast slots are always the fast variant; they perform
// pure address arithmetic on the native side.
func (e *Emitter) slotEntries(t *graph.TypeNode) []slotEntry {
	var entries []slotEntry

	for _, f := range t.Functions {
		if e.Config.SkipMember(t.Name, f.Name) {
			continue
		}
		conv := "Default"
		if f.NoTransition {
			conv = "Fast"
		}
		entries = append(entries, slotEntry{key: f.Mangled, conv: conv})
	}

	for _, fd := range t.Fields {
		if e.Config.SkipMember(t.Name, fd.Name) {
			continue
		}
		entries = append(entries,
			slotEntry{key: fd.GetKey(), conv: "Default"},
			slotEntry{key: fd.SetKey(), conv: "Default"},
		)
	}

	if t.HasInstances() {
		for _, ancestor := range t.Chain {
			entries = append(entries,
				slotEntry{key: t.CastUpKey(ancestor), conv: "Fast"},
				slotEntry{key: t.CastDownKey(ancestor), conv: "Fast"},
			)
		}
	}

	return entries
}

// emitSlotTable generates the private table of function-pointer slots
// and the init that exports it to the runtime registry for the loader
// to fill. Slots start empty; calling one before installation fails
// with a missing-binding error, never a silent nil dereference.
func (e *Emitter) emitSlotTable(file *jen.File, t *graph.TypeNode) {
	entries := e.slotEntries(t)
	if len(entries) == 0 {
		return
	}

	file.Commentf("Raw-callable slots for %s, installed once at load time.", t.Name)
	file.Var().Id(slotsVar(t)).Op("=").StructFunc(func(g *jen.Group) {
		for _, entry := range entries {
			g.Id(slotField(entry.key)).Add(e.rt("Slot"))
		}
	}).Values(jen.DictFunc(func(d jen.Dict) {
		for _, entry := range entries {
			d[jen.Id(slotField(entry.key))] = e.rt("NewSlot").Call(
				jen.Lit(t.Name), jen.Lit(entry.key), e.rt(entry.conv),
			)
		}
	}))

	file.Func().Id("init").Params().Block(
		e.rt("Export").Call(
			jen.Lit(t.Name),
			jen.Map(jen.String()).Op("*").Add(e.rt("Slot")).Values(jen.DictFunc(func(d jen.Dict) {
				for _, entry := range entries {
					d[jen.Lit(entry.key)] = jen.Op("&").Id(slotsVar(t)).Dot(slotField(entry.key))
				}
			})),
		),
	)
}
