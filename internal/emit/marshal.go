package emit

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"gobind/internal/graph"
)

// rt references a name in the runtime package the generated code links
// against.
func (e *Emitter) rt(name string) *jen.Statement {
	return jen.Qual(e.Config.Runtime, name)
}

func kindType(k graph.Kind) *jen.Statement {
	switch k {
	case graph.Bool:
		return jen.Bool()
	case graph.Int8:
		return jen.Int8()
	case graph.Int16:
		return jen.Int16()
	case graph.Int32:
		return jen.Int32()
	case graph.Int64:
		return jen.Int64()
	case graph.Uint8:
		return jen.Uint8()
	case graph.Uint16:
		return jen.Uint16()
	case graph.Uint32:
		return jen.Uint32()
	case graph.Uint64:
		return jen.Uint64()
	case graph.Float32:
		return jen.Float32()
	case graph.Float64:
		return jen.Float64()
	case graph.UPtr:
		return jen.Uintptr()
	case graph.String:
		return jen.String()
	}
	panic(fmt.Sprintf("emit: no Go type for kind %s", k))
}

// goType renders the managed-facing type of a descriptor. Owned object
// types are pointer-shaped, everything else travels by value.
func (e *Emitter) goType(ref graph.TypeRef) *jen.Statement {
	if ref.Kind == graph.Object {
		if e.isOwned(ref.Name) {
			return jen.Op("*").Id(ref.Name)
		}
		return jen.Id(ref.Name)
	}
	if ref.ByRef {
		return jen.Op("*").Add(kindType(ref.Kind))
	}
	return kindType(ref.Kind)
}

func (e *Emitter) isOwned(typeName string) bool {
	t, ok := e.Graph.Lookup(typeName)
	return ok && t.SharedOwnership
}

// wordFromScalar converts a managed scalar expression into a call word.
func (e *Emitter) wordFromScalar(k graph.Kind, expr jen.Code) *jen.Statement {
	switch k {
	case graph.Bool:
		return e.rt("BoolArg").Call(expr)
	case graph.Float32:
		return e.rt("Float32Arg").Call(expr)
	case graph.Float64:
		return e.rt("Float64Arg").Call(expr)
	case graph.UPtr:
		return jen.Add(expr)
	default:
		return jen.Uintptr().Call(expr)
	}
}

// scalarFromWord converts a call word back into a managed scalar.
func (e *Emitter) scalarFromWord(k graph.Kind, expr jen.Code) *jen.Statement {
	switch k {
	case graph.Bool:
		return e.rt("BoolRet").Call(expr)
	case graph.Float32:
		return e.rt("Float32Ret").Call(expr)
	case graph.Float64:
		return e.rt("Float64Ret").Call(expr)
	case graph.UPtr:
		return jen.Add(expr)
	default:
		return kindType(k).Call(expr)
	}
}

// argWords builds the native argument conversion for one parameter:
// statements emitted before the call, the call word itself, and
// statements emitted after the call (out write-backs, keep-alives).
func (e *Emitter) argWords(p *graph.Param) (pre []jen.Code, arg jen.Code, post []jen.Code) {
	if p.IsOut {
		// Scalar out parameter: the native side writes through a word
		// the wrapper copies back into the caller's pointer.
		cell := p.Name + "Out"
		pre = append(pre, jen.Var().Id(cell).Uintptr())
		arg = jen.Uintptr().Call(jen.Qual("unsafe", "Pointer").Call(jen.Op("&").Id(cell)))
		post = append(post, jen.Op("*").Id(p.Name).Op("=").Add(e.scalarFromWord(p.Type.Kind, jen.Id(cell))))
		return pre, arg, post
	}

	switch p.Type.Kind {
	case graph.String:
		ptr := p.Name + "Ptr"
		pre = append(pre, jen.Id(ptr).Op(":=").Add(e.rt("CString").Call(jen.Id(p.Name))))
		arg = jen.Uintptr().Call(jen.Qual("unsafe", "Pointer").Call(jen.Id(ptr)))
		post = append(post, jen.Qual("runtime", "KeepAlive").Call(jen.Id(ptr)))
		return pre, arg, post
	case graph.Object:
		return nil, jen.Uintptr().Call(jen.Id(p.Name).Dot("handle")), nil
	default:
		return nil, e.wordFromScalar(p.Type.Kind, jen.Id(p.Name)), nil
	}
}

// returnExpr converts the raw call word into the managed return value.
func (e *Emitter) returnExpr(ref graph.TypeRef, word jen.Code) *jen.Statement {
	if ref.ByRef {
		// The word is a native address of the scalar.
		return jen.Parens(jen.Op("*").Add(kindType(ref.Kind))).Call(jen.Qual("unsafe", "Pointer").Call(word))
	}
	switch ref.Kind {
	case graph.String:
		return e.rt("GoString").Call(word)
	case graph.Object:
		handle := e.rt("Handle").Call(word)
		if ref.Owned {
			return jen.Id("New" + ref.Name).Call(handle)
		}
		if e.isOwned(ref.Name) {
			// Non-owning view of an owned type.
			return jen.Op("&").Id(ref.Name).Values(jen.Dict{jen.Id("handle"): handle})
		}
		return jen.Id(ref.Name).Values(jen.Dict{jen.Id("handle"): handle})
	default:
		return e.scalarFromWord(ref.Kind, word)
	}
}
