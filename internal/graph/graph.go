// Package graph holds the resolved definition model the binding emitter
// consumes: native types, their base-class chains, functions, fields and
// argument descriptors.
package graph

import "fmt"

// Kind identifies how a value crosses the native boundary.
type Kind int

const (
	Void Kind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	UPtr
	String
	Object
)

var kindNames = map[Kind]string{
	Void:    "void",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
	UPtr:    "uintptr",
	String:  "string",
	Object:  "object",
}

var kindValues = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return name
}

func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind: %d", int(k))
	}
	return []byte(name), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	value, ok := kindValues[string(text)]
	if !ok {
		return fmt.Errorf("unknown kind: %q", string(text))
	}
	*k = value
	return nil
}

// Scalar reports whether the kind is a plain numeric/bool value that fits
// a single call-slot word.
func (k Kind) Scalar() bool {
	return k >= Bool && k <= UPtr
}

// TypeRef describes one marshaled value: a parameter, a return value or a
// field. Name is set for Object kinds only; Owned marks object returns
// whose identity the wrapper must take ownership of.
type TypeRef struct {
	Kind  Kind   `json:"kind"`
	Name  string `json:"name,omitempty"`
	Owned bool   `json:"owned,omitempty"`
	// ByRef marks a scalar return that refers into native memory
	// instead of traveling by value.
	ByRef bool `json:"byRef,omitempty"`
}

// IsVoid reports whether the ref carries no value at all.
func (r TypeRef) IsVoid() bool { return r.Kind == Void }

// Param is a single function parameter. Params with IsReal false exist
// only on the native side (implicit receiver slots and the like) and are
// dropped from the generated signature.
type Param struct {
	Name   string  `json:"name"`
	Type   TypeRef `json:"type"`
	IsReal bool    `json:"real"`
	IsOut  bool    `json:"out,omitempty"`
}

// FunctionMember is one callable on a native type. Mangled keys the
// raw-callable slot and must be unique within the owning type.
type FunctionMember struct {
	Name             string   `json:"name"`
	Mangled          string   `json:"mangled"`
	Params           []*Param `json:"params,omitempty"`
	Return           TypeRef  `json:"return"`
	IsStatic         bool     `json:"static,omitempty"`
	NoTransition     bool     `json:"fast,omitempty"`
	ReleasesReceiver bool     `json:"releasesReceiver,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// RealParams returns the parameters that appear in the generated
// signature, in declaration order.
func (f *FunctionMember) RealParams() []*Param {
	params := make([]*Param, 0, len(f.Params))
	for _, p := range f.Params {
		if p.IsReal {
			params = append(params, p)
		}
	}
	return params
}

// IsDispose reports whether the function is the explicit disposal entry
// point of its owning type.
func (f *FunctionMember) IsDispose() bool { return f.Name == "Dispose" }

// FieldMember is one native field, always exposed through a paired
// getter/setter backed by two independent slots.
type FieldMember struct {
	Name     string  `json:"name"`
	Mangled  string  `json:"mangled"`
	Type     TypeRef `json:"type"`
	IsStatic bool    `json:"static,omitempty"`
}

// GetKey returns the slot key of the field getter.
func (f *FieldMember) GetKey() string { return "Get__" + f.Mangled }

// SetKey returns the slot key of the field setter.
func (f *FieldMember) SetKey() string { return "Set__" + f.Mangled }

// TypeNode is one native-backed type. Base names the single parent, if
// any; Chain is filled by Resolve with every ancestor from the direct
// parent down to the most-base type.
type TypeNode struct {
	Name            string            `json:"name"`
	Namespace       string            `json:"namespace,omitempty"`
	Base            string            `json:"base,omitempty"`
	IsStatic        bool              `json:"static,omitempty"`
	IsAccessorOnly  bool              `json:"accessorOnly,omitempty"`
	IsPointerOnly   bool              `json:"pointerOnly,omitempty"`
	SharedOwnership bool              `json:"sharedOwnership,omitempty"`
	SkipNative      bool              `json:"skipNative,omitempty"`
	Functions       []*FunctionMember `json:"functions,omitempty"`
	Fields          []*FieldMember    `json:"fields,omitempty"`

	Chain []*TypeNode `json:"-"`
}

// HasInstances reports whether values of the type carry a native
// identity. Static facades and accessor-only types do not.
func (t *TypeNode) HasInstances() bool {
	return !t.IsStatic && !t.IsAccessorOnly
}

// CastUpKey returns the slot key of the derived-to-ancestor cast.
func (t *TypeNode) CastUpKey(ancestor *TypeNode) string {
	return fmt.Sprintf("To_%s_From_%s", ancestor.Name, t.Name)
}

// CastDownKey returns the slot key of the ancestor-to-derived cast.
func (t *TypeNode) CastDownKey(ancestor *TypeNode) string {
	return fmt.Sprintf("From_%s_To_%s", ancestor.Name, t.Name)
}

// Graph is the whole definition set handed to the emitter. Types keep
// their declaration order; byName is built by Resolve.
type Graph struct {
	Types []*TypeNode `json:"types"`

	byName map[string]*TypeNode
}

// Lookup returns the type with the given name, if the graph holds one.
// Only valid after Resolve.
func (g *Graph) Lookup(name string) (*TypeNode, bool) {
	t, ok := g.byName[name]
	return t, ok
}
