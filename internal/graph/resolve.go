package graph

import "fmt"

// Resolve indexes the graph, links every base-type chain and validates
// the whole input. Any error here aborts generation: the emitter never
// runs over a partially valid graph.
func (g *Graph) Resolve() error {
	g.byName = make(map[string]*TypeNode, len(g.Types))
	for _, t := range g.Types {
		if t.Name == "" {
			return fmt.Errorf("definition graph contains a type without a name")
		}
		if _, exists := g.byName[t.Name]; exists {
			return fmt.Errorf("duplicate type definition: %s", t.Name)
		}
		g.byName[t.Name] = t
	}

	for _, t := range g.Types {
		if err := g.resolveChain(t); err != nil {
			return err
		}
		if err := validateType(t); err != nil {
			return err
		}
		if err := g.validateRefs(t); err != nil {
			return err
		}
	}

	return nil
}

func hasDispose(t *TypeNode) bool {
	for _, f := range t.Functions {
		if f.IsDispose() {
			return true
		}
	}
	return false
}

func (g *Graph) validateRefs(t *TypeNode) error {
	check := func(ref TypeRef, where string) error {
		if ref.Kind != Object || ref.Name == "" {
			return nil
		}
		target, ok := g.byName[ref.Name]
		if !ok {
			return fmt.Errorf("type %s: %s references undefined type %s", t.Name, where, ref.Name)
		}
		if ref.Owned && !target.SharedOwnership {
			return fmt.Errorf("type %s: %s transfers ownership of %s, which is not an owning type", t.Name, where, ref.Name)
		}
		return nil
	}

	for _, f := range t.Functions {
		for _, p := range f.Params {
			if err := check(p.Type, fmt.Sprintf("function %s parameter %s", f.Name, p.Name)); err != nil {
				return err
			}
		}
		if err := check(f.Return, fmt.Sprintf("function %s return", f.Name)); err != nil {
			return err
		}
	}
	for _, f := range t.Fields {
		if err := check(f.Type, fmt.Sprintf("field %s", f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) resolveChain(t *TypeNode) error {
	t.Chain = t.Chain[:0]
	seen := map[string]bool{t.Name: true}

	for base := t.Base; base != ""; {
		if seen[base] {
			return fmt.Errorf("type %s: cyclic base chain through %s", t.Name, base)
		}
		seen[base] = true

		parent, ok := g.byName[base]
		if !ok {
			return fmt.Errorf("type %s: unknown base type %s", t.Name, base)
		}
		if !parent.HasInstances() || parent.IsPointerOnly {
			return fmt.Errorf("type %s: base type %s cannot be inherited from", t.Name, base)
		}

		t.Chain = append(t.Chain, parent)
		base = parent.Base
	}

	return nil
}

func validateType(t *TypeNode) error {
	if t.IsPointerOnly && (len(t.Functions) > 0 || len(t.Fields) > 0 || t.Base != "") {
		return fmt.Errorf("type %s: pointer-only types carry no members and no base", t.Name)
	}
	if (t.IsStatic || t.IsAccessorOnly) && t.SharedOwnership {
		return fmt.Errorf("type %s: a static surface cannot own a native identity", t.Name)
	}

	if t.SharedOwnership && !hasDispose(t) {
		return fmt.Errorf("type %s: shared ownership requires a Dispose function", t.Name)
	}

	mangled := make(map[string]string)
	claim := func(key, member string) error {
		if prev, taken := mangled[key]; taken {
			return fmt.Errorf("type %s: mangled name %s used by both %s and %s", t.Name, key, prev, member)
		}
		mangled[key] = member
		return nil
	}

	for _, f := range t.Functions {
		if f.Mangled == "" {
			return fmt.Errorf("type %s: function %s has no mangled name", t.Name, f.Name)
		}
		if err := claim(f.Mangled, f.Name); err != nil {
			return err
		}
		for _, p := range f.Params {
			if p.Type.Kind == Object && p.Type.Name == "" {
				return fmt.Errorf("type %s: function %s: parameter %s has an unnamed object type", t.Name, f.Name, p.Name)
			}
			if p.IsOut && !p.Type.Kind.Scalar() {
				return fmt.Errorf("type %s: function %s: out parameter %s must be scalar", t.Name, f.Name, p.Name)
			}
		}
		if f.ReleasesReceiver && !t.SharedOwnership {
			return fmt.Errorf("type %s: function %s releases a receiver the type does not own", t.Name, f.Name)
		}
		if f.Return.Kind == Object && f.Return.Name == "" {
			return fmt.Errorf("type %s: function %s returns an unnamed object type", t.Name, f.Name)
		}
		if f.Return.ByRef && !f.Return.Kind.Scalar() {
			return fmt.Errorf("type %s: function %s: by-reference returns must be scalar", t.Name, f.Name)
		}
		if f.IsDispose() && !t.SharedOwnership {
			return fmt.Errorf("type %s: Dispose declared on a type without shared ownership", t.Name)
		}
	}

	for _, f := range t.Fields {
		if f.Mangled == "" {
			return fmt.Errorf("type %s: field %s has no mangled name", t.Name, f.Name)
		}
		if err := claim(f.Mangled, f.Name); err != nil {
			return err
		}
		if f.Type.IsVoid() {
			return fmt.Errorf("type %s: field %s has no value type", t.Name, f.Name)
		}
	}

	return nil
}
