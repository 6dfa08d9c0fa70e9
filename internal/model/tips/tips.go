package tips

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tips.yaml
var defaultTable []byte

// Table maps a mood level to a short list of suggestions.
type Table struct {
	Levels   map[int][]string `yaml:"levels"`
	Fallback []string         `yaml:"fallback"`
}

// Store exposes tip lookup for HTTP handlers.
type Store interface {
	For(level int) []string
}

// Seed returns the built-in table shipped with the binary.
func Seed() *Table {
	table, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded tips table is invalid: %v", err))
	}
	return table
}

// Load reads a replacement table from path. An empty path yields the built-in table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Seed(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tips file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML tips table.
func Parse(raw []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode tips table: %w", err)
	}
	if len(table.Fallback) == 0 {
		return nil, errors.New("tips table requires a fallback list")
	}
	if table.Levels == nil {
		table.Levels = make(map[int][]string)
	}
	return &table, nil
}

// For returns the tips for level, or the fallback list for unknown levels.
func (t *Table) For(level int) []string {
	if items, ok := t.Levels[level]; ok && len(items) > 0 {
		return append([]string(nil), items...)
	}
	return append([]string(nil), t.Fallback...)
}
