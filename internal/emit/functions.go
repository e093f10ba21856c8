package emit

import (
	"github.com/dave/jennifer/jen"

	"gobind/internal/graph"
)

// emitFunctions generates one call-forwarding wrapper per function of an
// instance type.
func (e *Emitter) emitFunctions(file *jen.File, t *graph.TypeNode) {
	for _, f := range t.Functions {
		if e.Config.SkipMember(t.Name, f.Name) {
			continue
		}
		switch {
		case f.IsDispose():
			e.emitDispose(file, t, f)
		case f.IsStatic:
			e.emitStaticFunction(file, t, f)
		default:
			e.emitMethod(file, t, f)
		}
	}
}

func (e *Emitter) emitMethod(file *jen.File, t *graph.TypeNode, f *graph.FunctionMember) {
	file.Commentf("%s forwards to the native %s.%s.", f.Name, qualifiedName(t), f.Name)
	file.Func().Params(e.receiver(t)).Id(f.Name).
		Params(e.signatureParams(f)...).
		Add(e.signatureResult(f)).
		Block(e.callBody(t, f, true)...)
}

// emitStaticFunction generates a package-level wrapper for a static
// member of an instance type, prefixed with the owning type's name.
func (e *Emitter) emitStaticFunction(file *jen.File, t *graph.TypeNode, f *graph.FunctionMember) {
	name := t.Name + f.Name
	file.Commentf("%s forwards to the static native %s.%s.", name, qualifiedName(t), f.Name)
	file.Func().Id(name).
		Params(e.signatureParams(f)...).
		Add(e.signatureResult(f)).
		Block(e.callBody(t, f, false)...)
}

// emitDispose generates the idempotent disposal method plus the
// io.Closer implementation. Disposing twice is a no-op; the identity is
// nulled even when the native call fails.
func (e *Emitter) emitDispose(file *jen.File, t *graph.TypeNode, f *graph.FunctionMember) {
	body := []jen.Code{
		jen.If(jen.Id("obj").Dot("handle").Op("==").Add(e.rt("NullHandle"))).Block(
			jen.Return(),
		),
		jen.Id("self").Op(":=").Uintptr().Call(jen.Id("obj").Dot("handle")),
		jen.Defer().Func().Params().Block(
			jen.Id("obj").Dot("handle").Op("=").Add(e.rt("NullHandle")),
		).Call(),
		jen.Qual("runtime", "SetFinalizer").Call(jen.Id("obj"), jen.Nil()),
	}
	if e.Config.Instrument {
		body = append(body, e.recordCall(t, f))
	}
	body = append(body, jen.Id(slotsVar(t)).Dot(slotField(f.Mangled)).Dot("Call").Call(jen.Id("self")))

	file.Commentf("Dispose releases the owned native identity. Safe to call more than once.")
	file.Func().Params(e.receiver(t)).Id("Dispose").Params().Block(body...)

	file.Commentf("Close implements io.Closer by disposing the wrapper.")
	file.Func().Params(e.receiver(t)).Id("Close").Params().Error().Block(
		jen.Id("obj").Dot("Dispose").Call(),
		jen.Return(jen.Nil()),
	)
}

func (e *Emitter) signatureParams(f *graph.FunctionMember) []jen.Code {
	var params []jen.Code
	for _, p := range f.RealParams() {
		typ := e.goType(p.Type)
		if p.IsOut {
			typ = jen.Op("*").Add(kindType(p.Type.Kind))
		}
		params = append(params, jen.Id(p.Name).Add(typ))
	}
	return params
}

func (e *Emitter) signatureResult(f *graph.FunctionMember) *jen.Statement {
	if f.Return.IsVoid() {
		return jen.Null()
	}
	return e.goType(f.Return)
}

// callBody builds the wrapper body: validity assertion, optional call
// record, argument conversion, the slot call, post-call effects and the
// return conversion.
func (e *Emitter) callBody(t *graph.TypeNode, f *graph.FunctionMember, instanced bool) []jen.Code {
	var body []jen.Code

	words := []jen.Code{}
	if instanced {
		body = append(body, jen.Id("self").Op(":=").Add(e.rt("MustHandle")).Call(
			jen.Id("obj").Dot("handle"), jen.Lit(t.Name), jen.Lit(f.Name),
		))
		words = append(words, jen.Id("self"))
	}
	if e.Config.Instrument {
		body = append(body, e.recordCall(t, f))
	}
	if f.ReleasesReceiver {
		body = append(body, jen.Defer().Func().Params().Block(
			jen.Id("obj").Dot("handle").Op("=").Add(e.rt("NullHandle")),
		).Call())
	}

	var posts []jen.Code
	for _, p := range f.RealParams() {
		pre, arg, post := e.argWords(p)
		body = append(body, pre...)
		words = append(words, arg)
		posts = append(posts, post...)
	}

	call := jen.Id(slotsVar(t)).Dot(slotField(f.Mangled)).Dot("Call").Call(words...)
	switch {
	case f.Return.IsVoid():
		body = append(body, call)
		body = append(body, posts...)
	case len(posts) == 0:
		body = append(body, jen.Return(e.returnExpr(f.Return, call)))
	default:
		body = append(body, jen.Id("ret").Op(":=").Add(call))
		body = append(body, posts...)
		body = append(body, jen.Return(e.returnExpr(f.Return, jen.Id("ret"))))
	}

	return body
}

func (e *Emitter) recordCall(t *graph.TypeNode, f *graph.FunctionMember) jen.Code {
	args := []jen.Code{jen.Lit(t.Name), jen.Lit(f.Name)}
	args = append(args, memberTags(f)...)
	return e.rt("RecordCall").Call(args...)
}
