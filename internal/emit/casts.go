package emit

import (
	"github.com/dave/jennifer/jen"

	"gobind/internal/graph"
)

// emitCasts generates one upcast/downcast pair per ancestor level. Every
// direction goes through its own raw slot: under multiple or virtual
// inheritance the ancestor subobject is not address-equal to the derived
// identity, so a cast is a native call, never a reinterpretation.
func (e *Emitter) emitCasts(file *jen.File, t *graph.TypeNode) {
	for _, ancestor := range t.Chain {
		e.emitUpcast(file, t, ancestor)
		e.emitDowncast(file, t, ancestor)
	}
}

func (e *Emitter) emitUpcast(file *jen.File, t, ancestor *graph.TypeNode) {
	method := "As" + ancestor.Name
	word := jen.Id(slotsVar(t)).Dot(slotField(t.CastUpKey(ancestor))).Dot("Call").Call(jen.Id("self"))

	file.Commentf("%s upcasts to the %s subobject, adjusting the identity on the native side.", method, ancestor.Name)
	file.Func().Params(e.receiver(t)).Id(method).Params().Add(e.wrapperType(ancestor)).Block(
		jen.Id("self").Op(":=").Add(e.rt("MustHandle")).Call(jen.Id("obj").Dot("handle"), jen.Lit(t.Name), jen.Lit(method)),
		jen.Return(e.wrapValue(ancestor, word)),
	)
}

func (e *Emitter) emitDowncast(file *jen.File, t, ancestor *graph.TypeNode) {
	fn := t.Name + "From" + ancestor.Name
	word := jen.Id(slotsVar(t)).Dot(slotField(t.CastDownKey(ancestor))).Dot("Call").Call(jen.Id("self"))

	file.Commentf("%s downcasts a %s to %s.", fn, ancestor.Name, t.Name)
	file.Func().Id(fn).Params(jen.Id("v").Add(e.wrapperType(ancestor))).Add(e.wrapperType(t)).Block(
		jen.Id("self").Op(":=").Add(e.rt("MustHandle")).Call(jen.Id("v").Dot("handle"), jen.Lit(t.Name), jen.Lit(fn)),
		jen.Return(e.wrapValue(t, word)),
	)
}

// wrapperType renders the Go type a wrapper of t travels as.
func (e *Emitter) wrapperType(t *graph.TypeNode) *jen.Statement {
	if t.SharedOwnership {
		return jen.Op("*").Id(t.Name)
	}
	return jen.Id(t.Name)
}

// wrapValue builds a non-owning wrapper of t around a raw call word.
// Casts never transfer ownership: the derived wrapper keeps it.
func (e *Emitter) wrapValue(t *graph.TypeNode, word jen.Code) *jen.Statement {
	handle := e.rt("Handle").Call(word)
	lit := jen.Id(t.Name).Values(jen.Dict{jen.Id("handle"): handle})
	if t.SharedOwnership {
		return jen.Op("&").Add(lit)
	}
	return lit
}
