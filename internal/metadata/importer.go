// Package metadata bootstraps definition graphs from Windows Metadata
// files: TypeDefs become graph types, MethodDefs and Fields become
// members. The imported graph is a starting point; ownership and
// attribute flags are tuned by hand in the JSON document afterwards.
package metadata

import (
	"debug/pe"
	"fmt"

	"github.com/microsoft/go-winmd"
	"github.com/microsoft/go-winmd/flags"

	"gobind/internal/graph"
)

// Importer reads one metadata file.
type Importer struct {
	metadata winmd.Metadata
}

// NewImporter opens a .winmd file and prepares its metadata tables.
func NewImporter(path string) (*Importer, error) {
	peFile, err := pe.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata file: %w", err)
	}
	defer peFile.Close()

	md, err := winmd.New(peFile)
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	return &Importer{metadata: *md}, nil
}

// ImportTypes maps the named TypeDefs into a resolved definition graph.
// Base types referenced by the requested set are pulled in
// transitively.
func (imp *Importer) ImportTypes(names []string) (*graph.Graph, error) {
	pending := append([]string(nil), names...)
	done := make(map[string]bool)
	g := &graph.Graph{}

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]
		if done[name] {
			continue
		}
		done[name] = true

		typeDef, err := imp.findTypeDef(name)
		if err != nil {
			return nil, err
		}
		node, err := imp.importType(typeDef)
		if err != nil {
			return nil, err
		}
		g.Types = append(g.Types, node)
		if node.Base != "" && !done[node.Base] {
			pending = append(pending, node.Base)
		}
	}

	if err := g.Resolve(); err != nil {
		return nil, fmt.Errorf("imported graph: %w", err)
	}
	return g, nil
}

func (imp *Importer) findTypeDef(name string) (*winmd.TypeDef, error) {
	table := imp.metadata.Tables.TypeDef
	for i := uint32(0); i < table.Len; i++ {
		typeDef, err := table.Record(winmd.Index(i))
		if err != nil {
			return nil, fmt.Errorf("reading type table: %w", err)
		}
		if typeDef.Name.String() == name {
			return typeDef, nil
		}
	}
	return nil, fmt.Errorf("metadata defines no type %s", name)
}

func (imp *Importer) importType(typeDef *winmd.TypeDef) (*graph.TypeNode, error) {
	node := &graph.TypeNode{
		Name:      typeDef.Name.String(),
		Namespace: typeDef.Namespace.String(),
		Base:      imp.baseName(typeDef),
	}

	for i := typeDef.MethodList.Start; i < typeDef.MethodList.End; i++ {
		methodDef, err := imp.metadata.Tables.MethodDef.Record(i)
		if err != nil {
			return nil, fmt.Errorf("type %s: reading method table: %w", node.Name, err)
		}
		fn, err := imp.importMethod(node.Name, methodDef)
		if err != nil {
			return nil, err
		}
		node.Functions = append(node.Functions, fn)
	}

	for i := typeDef.FieldList.Start; i < typeDef.FieldList.End; i++ {
		field, err := imp.metadata.Tables.Field.Record(i)
		if err != nil {
			return nil, fmt.Errorf("type %s: reading field table: %w", node.Name, err)
		}
		fd, err := imp.importField(node.Name, field)
		if err != nil {
			return nil, err
		}
		node.Fields = append(node.Fields, fd)
	}

	return node, nil
}

// baseName resolves the Extends coded index through the TypeRef table.
// The metadata roots (System.Object and friends) do not translate to a
// native base.
func (imp *Importer) baseName(typeDef *winmd.TypeDef) string {
	ref, err := imp.metadata.Tables.TypeRef.Record(typeDef.Extends.Index)
	if err != nil {
		return ""
	}
	if ref.Namespace.String() == "System" {
		return ""
	}
	return ref.Name.String()
}

func (imp *Importer) importMethod(owner string, methodDef *winmd.MethodDef) (*graph.FunctionMember, error) {
	sig, err := imp.metadata.MethodDefSignature(methodDef.Signature)
	if err != nil {
		return nil, fmt.Errorf("type %s: method %s: %w", owner, methodDef.Name.String(), err)
	}

	ret, err := imp.typeRef(sig.RetType.Type)
	if err != nil {
		return nil, fmt.Errorf("type %s: method %s return: %w", owner, methodDef.Name.String(), err)
	}

	fn := &graph.FunctionMember{
		Name:    methodDef.Name.String(),
		Mangled: owner + "_" + methodDef.Name.String(),
		Return:  ret,
	}

	var paramNames []string
	for i := methodDef.ParamList.Start + 1; i < methodDef.ParamList.End; i++ {
		param, err := imp.metadata.Tables.Param.Record(i)
		if err != nil {
			return nil, fmt.Errorf("type %s: method %s: reading param table: %w", owner, fn.Name, err)
		}
		paramNames = append(paramNames, param.Name.String())
	}

	for i, sigParam := range sig.Param {
		sigType, ok := sigParam.Type.Value.(winmd.SigType)
		if !ok {
			return nil, fmt.Errorf("type %s: method %s: unsupported parameter shape", owner, fn.Name)
		}
		ref, err := imp.typeRef(sigType)
		if err != nil {
			return nil, fmt.Errorf("type %s: method %s: %w", owner, fn.Name, err)
		}
		name := fmt.Sprintf("arg%d", i)
		if i < len(paramNames) && paramNames[i] != "" {
			name = paramNames[i]
		}
		fn.Params = append(fn.Params, &graph.Param{Name: name, Type: ref, IsReal: true})
	}

	return fn, nil
}

func (imp *Importer) importField(owner string, field *winmd.Field) (*graph.FieldMember, error) {
	sig, err := imp.metadata.FieldSignature(field.Signature)
	if err != nil {
		return nil, fmt.Errorf("type %s: field %s: %w", owner, field.Name.String(), err)
	}
	ref, err := imp.typeRef(sig.Type)
	if err != nil {
		return nil, fmt.Errorf("type %s: field %s: %w", owner, field.Name.String(), err)
	}
	return &graph.FieldMember{
		Name:    field.Name.String(),
		Mangled: owner + "_" + field.Name.String(),
		Type:    ref,
	}, nil
}

// scalarKinds maps metadata element types onto graph kinds.
var scalarKinds = map[flags.ElementType]graph.Kind{
	flags.ElementType_VOID:    graph.Void,
	flags.ElementType_BOOLEAN: graph.Bool,
	flags.ElementType_CHAR:    graph.Uint16,
	flags.ElementType_STRING:  graph.String,
	flags.ElementType_I1:      graph.Int8,
	flags.ElementType_I2:      graph.Int16,
	flags.ElementType_I4:      graph.Int32,
	flags.ElementType_I8:      graph.Int64,
	flags.ElementType_U1:      graph.Uint8,
	flags.ElementType_U2:      graph.Uint16,
	flags.ElementType_U4:      graph.Uint32,
	flags.ElementType_U8:      graph.Uint64,
	flags.ElementType_R4:      graph.Float32,
	flags.ElementType_R8:      graph.Float64,
	flags.ElementType_I:       graph.UPtr,
	flags.ElementType_U:       graph.UPtr,
}

func (imp *Importer) typeRef(sigType winmd.SigType) (graph.TypeRef, error) {
	if kind, ok := scalarKinds[sigType.Kind]; ok {
		return graph.TypeRef{Kind: kind}, nil
	}

	if sigType.Kind == flags.ElementType_PTR {
		// Opaque native pointer; the graph keeps it as a raw word.
		return graph.TypeRef{Kind: graph.UPtr}, nil
	}

	if sigType.Kind == flags.ElementType_CLASS || sigType.Kind == flags.ElementType_VALUETYPE {
		index, ok := sigType.Value.(winmd.CodedIndex)
		if !ok {
			return graph.TypeRef{}, fmt.Errorf("unresolvable class reference")
		}
		ref, err := imp.metadata.Tables.TypeRef.Record(index.Index)
		if err != nil {
			return graph.TypeRef{}, fmt.Errorf("resolving class reference: %w", err)
		}
		return graph.TypeRef{Kind: graph.Object, Name: ref.Name.String()}, nil
	}

	return graph.TypeRef{}, fmt.Errorf("unsupported element type %v", sigType.Kind)
}
