package emit

import (
	"github.com/dave/jennifer/jen"

	"gobind/internal/graph"
)

// emitFacade generates the surface of a static or accessor-only type:
// no instance state, no identity, just forwarding methods on an empty
// carrier. Calls are guarded by the slot itself rather than a receiver
// check, since there is no receiver to check.
func (e *Emitter) emitFacade(file *jen.File, t *graph.TypeNode) {
	carrier := facadeType(t)

	file.Commentf("%s exposes the static surface of the native %s type.", t.Name, qualifiedName(t))
	file.Var().Id(t.Name).Id(carrier)

	file.Type().Id(carrier).Struct()

	for _, f := range t.Functions {
		if e.Config.SkipMember(t.Name, f.Name) {
			continue
		}
		file.Commentf("%s forwards to the static native %s.%s.", f.Name, qualifiedName(t), f.Name)
		file.Func().Params(jen.Id(carrier)).Id(f.Name).
			Params(e.signatureParams(f)...).
			Add(e.signatureResult(f)).
			Block(e.callBody(t, f, false)...)
	}

	for _, fd := range t.Fields {
		if e.Config.SkipMember(t.Name, fd.Name) {
			continue
		}
		file.Commentf("Get%s reads the static native %s.%s field.", fd.Name, qualifiedName(t), fd.Name)
		file.Func().Params(jen.Id(carrier)).Id("Get"+fd.Name).Params().Add(e.goType(fd.Type)).
			Block(e.getterBody(t, fd, false)...)

		file.Commentf("Set%s writes the static native %s.%s field.", fd.Name, qualifiedName(t), fd.Name)
		file.Func().Params(jen.Id(carrier)).Id("Set"+fd.Name).Params(jen.Id("value").Add(e.goType(fd.Type))).
			Block(e.setterBody(t, fd, false)...)
	}
}

// emitOpaque generates the degenerate pointer-only wrapper: identity
// plus raw conversions, nothing else.
func (e *Emitter) emitOpaque(file *jen.File, t *graph.TypeNode) {
	file.Commentf("%s is an opaque native handle.", t.Name)
	file.Type().Id(t.Name).Struct(
		jen.Id("handle").Add(e.rt("Handle")),
	)
	e.emitRawConversions(file, t)
}
