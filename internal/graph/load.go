package graph

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json"
)

// Load reads a definition graph document and resolves it. The document
// is the JSON form produced by `gobind import` or written by hand.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition graph: %w", err)
	}
	return Parse(data)
}

// Parse decodes and resolves a definition graph from raw JSON.
func Parse(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decoding definition graph: %w", err)
	}
	if err := g.Resolve(); err != nil {
		return nil, fmt.Errorf("invalid definition graph: %w", err)
	}
	return &g, nil
}

// Marshal renders the graph back into its JSON document form.
func (g *Graph) Marshal() ([]byte, error) {
	return json.Marshal(g, json.Deterministic(true))
}
