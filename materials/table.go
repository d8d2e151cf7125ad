package materials

import (
	"fmt"
	"strings"
)

// Table is a read-only registry of materials indexed by name and Kind.
// Kinds are assigned in insertion order; the built-ins come first.
type Table struct {
	byKind []*Material
	byName map[string]Kind
}

// Default returns a table holding only the built-in materials.
func Default() *Table {
	t, err := NewTable()
	if err != nil {
		panic(fmt.Sprintf("materials: built-in table: %v", err))
	}
	return t
}

// NewTable builds a table from the built-ins plus the given definitions.
// A definition whose name matches a built-in replaces it in place, keeping
// the built-in's Kind. Names are case-insensitive.
func NewTable(defs ...Material) (*Table, error) {
	t := &Table{byName: make(map[string]Kind)}
	for _, m := range Builtins() {
		t.byName[key(m.Name)] = Kind(len(t.byKind))
		t.byKind = append(t.byKind, m)
	}

	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		k := key(def.Name)
		if seen[k] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidMaterial, def.Name)
		}
		seen[k] = true

		m := def
		m.Name = k
		if kind, ok := t.byName[k]; ok {
			t.byKind[kind] = &m
			continue
		}
		if len(t.byKind) > 255 {
			return nil, fmt.Errorf("%w: too many materials", ErrInvalidMaterial)
		}
		t.byName[k] = Kind(len(t.byKind))
		t.byKind = append(t.byKind, &m)
	}
	return t, nil
}

// Lookup returns the material with the given name.
func (t *Table) Lookup(name string) (*Material, bool) {
	kind, ok := t.byName[key(name)]
	if !ok {
		return nil, false
	}
	return t.byKind[kind], true
}

// Resolve is like Lookup but fails with ErrUnknownMaterial.
func (t *Table) Resolve(name string) (*Material, error) {
	m, ok := t.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// KindOf returns the Kind registered for name.
func (t *Table) KindOf(name string) (Kind, bool) {
	kind, ok := t.byName[key(name)]
	return kind, ok
}

// ByKind returns the material for kind, or nil if kind is out of range.
func (t *Table) ByKind(kind Kind) *Material {
	if int(kind) >= len(t.byKind) {
		return nil
	}
	return t.byKind[kind]
}

// Len returns the number of materials.
func (t *Table) Len() int {
	return len(t.byKind)
}

// Names returns material names in kind order.
func (t *Table) Names() []string {
	names := make([]string, len(t.byKind))
	for i, m := range t.byKind {
		names[i] = m.Name
	}
	return names
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
