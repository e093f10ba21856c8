package emit

import (
	"github.com/dave/jennifer/jen"

	"gobind/internal/graph"
)

// emitFields generates a getter/setter pair per field, each backed by
// its own slot. A field is never a single combined accessor.
func (e *Emitter) emitFields(file *jen.File, t *graph.TypeNode) {
	for _, fd := range t.Fields {
		if e.Config.SkipMember(t.Name, fd.Name) {
			continue
		}
		if fd.IsStatic {
			e.emitStaticField(file, t, fd)
			continue
		}

		file.Commentf("Get%s reads the native %s.%s field.", fd.Name, qualifiedName(t), fd.Name)
		file.Func().Params(e.receiver(t)).Id("Get"+fd.Name).Params().Add(e.goType(fd.Type)).
			Block(e.getterBody(t, fd, true)...)

		file.Commentf("Set%s writes the native %s.%s field.", fd.Name, qualifiedName(t), fd.Name)
		file.Func().Params(e.receiver(t)).Id("Set"+fd.Name).Params(jen.Id("value").Add(e.goType(fd.Type))).
			Block(e.setterBody(t, fd, true)...)
	}
}

func (e *Emitter) emitStaticField(file *jen.File, t *graph.TypeNode, fd *graph.FieldMember) {
	getter := t.Name + "Get" + fd.Name
	setter := t.Name + "Set" + fd.Name

	file.Commentf("%s reads the static native %s.%s field.", getter, qualifiedName(t), fd.Name)
	file.Func().Id(getter).Params().Add(e.goType(fd.Type)).
		Block(e.getterBody(t, fd, false)...)

	file.Commentf("%s writes the static native %s.%s field.", setter, qualifiedName(t), fd.Name)
	file.Func().Id(setter).Params(jen.Id("value").Add(e.goType(fd.Type))).
		Block(e.setterBody(t, fd, false)...)
}

func (e *Emitter) getterBody(t *graph.TypeNode, fd *graph.FieldMember, instanced bool) []jen.Code {
	var body []jen.Code
	words := []jen.Code{}
	if instanced {
		body = append(body, jen.Id("self").Op(":=").Add(e.rt("MustHandle")).Call(
			jen.Id("obj").Dot("handle"), jen.Lit(t.Name), jen.Lit(fd.Name),
		))
		words = append(words, jen.Id("self"))
	}
	call := jen.Id(slotsVar(t)).Dot(slotField(fd.GetKey())).Dot("Call").Call(words...)
	return append(body, jen.Return(e.returnExpr(fd.Type, call)))
}

func (e *Emitter) setterBody(t *graph.TypeNode, fd *graph.FieldMember, instanced bool) []jen.Code {
	var body []jen.Code
	words := []jen.Code{}
	if instanced {
		body = append(body, jen.Id("self").Op(":=").Add(e.rt("MustHandle")).Call(
			jen.Id("obj").Dot("handle"), jen.Lit(t.Name), jen.Lit(fd.Name),
		))
		words = append(words, jen.Id("self"))
	}

	pre, arg, post := e.argWords(&graph.Param{Name: "value", Type: fd.Type, IsReal: true})
	body = append(body, pre...)
	words = append(words, arg)
	body = append(body, jen.Id(slotsVar(t)).Dot(slotField(fd.SetKey())).Dot("Call").Call(words...))
	body = append(body, post...)
	return body
}
