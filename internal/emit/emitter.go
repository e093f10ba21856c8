// Package emit walks a resolved definition graph and generates the Go
// wrapper source: identity wrappers, inheritance casts, call-forwarding
// methods, field accessors and the raw-callable slot tables.
package emit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"gobind/internal/config"
	"gobind/internal/graph"
)

const generatedHeader = "Code generated by gobind. DO NOT EDIT."

// Emitter generates one Go file per native type. The graph must be
// resolved; emission itself never mutates it.
type Emitter struct {
	Graph  *graph.Graph
	Config config.Config
}

func New(g *graph.Graph, cfg config.Config) *Emitter {
	return &Emitter{Graph: g, Config: cfg}
}

// Generate writes every non-skipped type of the graph into outputDir,
// one file per type, in graph order.
func (e *Emitter) Generate(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, t := range e.Graph.Types {
		file, err := e.emitType(t)
		if err != nil {
			return err
		}
		if file == nil {
			continue
		}
		if err := file.Save(filepath.Join(outputDir, e.fileName(t))); err != nil {
			return fmt.Errorf("writing bindings for %s: %w", t.Name, err)
		}
	}

	return nil
}

// Render returns the generated source for a single type, or the empty
// string when the type is skipped.
func (e *Emitter) Render(t *graph.TypeNode) (string, error) {
	file, err := e.emitType(t)
	if err != nil || file == nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := file.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering bindings for %s: %w", t.Name, err)
	}
	return buf.String(), nil
}

func (e *Emitter) emitType(t *graph.TypeNode) (*jen.File, error) {
	if t.SkipNative || e.Config.SkipType(t.Name) {
		return nil, nil
	}

	file := jen.NewFile(e.Config.Package)
	file.HeaderComment(generatedHeader)

	switch {
	case t.IsPointerOnly:
		e.emitOpaque(file, t)
	case !t.HasInstances():
		e.emitFacade(file, t)
		e.emitSlotTable(file, t)
	default:
		e.emitIdentity(file, t)
		e.emitCasts(file, t)
		e.emitFunctions(file, t)
		e.emitFields(file, t)
		e.emitSlotTable(file, t)
	}

	return file, nil
}

func (e *Emitter) fileName(t *graph.TypeNode) string {
	name := strings.ToLower(t.Name) + ".go"
	if t.Namespace != "" {
		name = strings.ToLower(t.Namespace) + "_" + name
	}
	return name
}

// qualifiedName renders the native-side name used in doc comments and
// diagnostics.
func qualifiedName(t *graph.TypeNode) string {
	if t.Namespace != "" {
		return t.Namespace + "." + t.Name
	}
	return t.Name
}

// slotsVar is the package-level slot table variable of a type.
func slotsVar(t *graph.TypeNode) string {
	return lowerFirst(t.Name) + "Slots"
}

// facadeType is the unexported method carrier behind a static surface.
func facadeType(t *graph.TypeNode) string {
	return lowerFirst(t.Name) + "API"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// slotField maps a slot key onto a Go struct field name. Mangled names
// may carry characters Go identifiers cannot.
func slotField(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) && i > 0:
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// memberTags renders the attribute tags recorded with instrumented
// calls.
func memberTags(f *graph.FunctionMember) []jen.Code {
	var tags []jen.Code
	for _, tag := range f.Tags {
		tags = append(tags, jen.Lit(tag))
	}
	if f.IsStatic {
		tags = append(tags, jen.Lit("static"))
	}
	if f.NoTransition {
		tags = append(tags, jen.Lit("fast"))
	}
	return tags
}
