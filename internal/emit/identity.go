package emit

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"gobind/internal/graph"
)

// emitIdentity generates the wrapper struct and its identity surface:
// raw conversions, validity, equality and rendering. Shared-ownership
// types instead get an owning constructor wired to the deferred
// disposal queue, and no raw conversions at all.
func (e *Emitter) emitIdentity(file *jen.File, t *graph.TypeNode) {
	if t.SharedOwnership {
		file.Commentf("%s wraps the native %s type and exclusively owns its identity.", t.Name, qualifiedName(t))
	} else {
		file.Commentf("%s wraps the native %s type.", t.Name, qualifiedName(t))
	}
	file.Type().Id(t.Name).Struct(
		jen.Id("handle").Add(e.rt("Handle")),
	)

	if t.SharedOwnership {
		e.emitOwnedLifecycle(file, t)
	} else {
		e.emitRawConversions(file, t)
	}

	file.Commentf("IsValid reports whether the wrapper still names a native object.")
	file.Func().Params(e.receiver(t)).Id("IsValid").Params().Bool().Block(
		jen.Return(jen.Id("obj").Dot("handle").Op("!=").Add(e.rt("NullHandle"))),
	)

	if !t.SharedOwnership {
		file.Commentf("Equal reports whether both wrappers name the same native identity.")
		file.Func().Params(e.receiver(t)).Id("Equal").Params(jen.Id("other").Id(t.Name)).Bool().Block(
			jen.Return(jen.Id("obj").Dot("handle").Op("==").Id("other").Dot("handle")),
		)
	}

	file.Func().Params(e.receiver(t)).Id("String").Params().String().Block(
		jen.Return(jen.Qual("fmt", "Sprintf").Call(
			jen.Lit(t.Name+"(0x%x)"),
			jen.Uintptr().Call(jen.Id("obj").Dot("handle")),
		)),
	)
}

func (e *Emitter) emitRawConversions(file *jen.File, t *graph.TypeNode) {
	file.Commentf("%sFromHandle wraps a raw native identity.", t.Name)
	file.Func().Id(t.Name+"FromHandle").Params(jen.Id("h").Add(e.rt("Handle"))).Id(t.Name).Block(
		jen.Return(jen.Id(t.Name).Values(jen.Dict{jen.Id("handle"): jen.Id("h")})),
	)

	file.Commentf("Handle returns the raw native identity.")
	file.Func().Params(e.receiver(t)).Id("Handle").Params().Add(e.rt("Handle")).Block(
		jen.Return(jen.Id("obj").Dot("handle")),
	)
}

func (e *Emitter) emitOwnedLifecycle(file *jen.File, t *graph.TypeNode) {
	newName := "New" + t.Name
	finalizeName := "finalize" + t.Name
	releaseName := "release" + t.Name

	file.Commentf("%s takes exclusive ownership of a native identity, released exactly once.", newName)
	file.Func().Id(newName).Params(jen.Id("h").Add(e.rt("Handle"))).Op("*").Id(t.Name).Block(
		jen.Id("obj").Op(":=").Op("&").Id(t.Name).Values(jen.Dict{jen.Id("handle"): jen.Id("h")}),
		jen.Qual("runtime", "SetFinalizer").Call(jen.Id("obj"), jen.Id(finalizeName)),
		jen.Return(jen.Id("obj")),
	)

	file.Comment("Finalization only enqueues; the host releases by draining the queue.")
	file.Func().Id(finalizeName).Params(jen.Id("obj").Op("*").Id(t.Name)).Block(
		jen.If(jen.Id("obj").Dot("handle").Op("!=").Add(e.rt("NullHandle"))).Block(
			e.rt("EnqueueDispose").Call(jen.Lit(t.Name), jen.Id("obj").Dot("handle"), jen.Id(releaseName)),
		),
	)

	dispose := disposeFunction(t)
	file.Func().Id(releaseName).Params(jen.Id("h").Add(e.rt("Handle"))).Block(
		jen.Id(slotsVar(t)).Dot(slotField(dispose.Mangled)).Dot("Call").Call(jen.Uintptr().Call(jen.Id("h"))),
	)
}

// disposeFunction returns the Dispose member of an owned type. Graph
// validation guarantees it exists.
func disposeFunction(t *graph.TypeNode) *graph.FunctionMember {
	for _, f := range t.Functions {
		if f.IsDispose() {
			return f
		}
	}
	panic(fmt.Sprintf("emit: owned type %s has no Dispose function", t.Name))
}

// receiver renders the method receiver: owned wrappers are
// pointer-shaped, value handles travel by value.
func (e *Emitter) receiver(t *graph.TypeNode) *jen.Statement {
	if t.SharedOwnership {
		return jen.Id("obj").Op("*").Id(t.Name)
	}
	return jen.Id("obj").Id(t.Name)
}
