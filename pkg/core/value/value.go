package value

import "sort"

// Variable is a named 64-bit signed integer binding.
type Variable struct {
	Name  string
	Value int64
}

// NameTable maps names to their current Variable. The zero value is not
// usable; call NewNameTable.
type NameTable struct {
	vars map[string]Variable
}

// NewNameTable returns an empty table.
func NewNameTable() *NameTable {
	return &NameTable{vars: make(map[string]Variable)}
}

// Get looks up name.
func (t *NameTable) Get(name string) (Variable, bool) {
	v, ok := t.vars[name]
	return v, ok
}

// Set binds name to v, replacing any earlier binding.
func (t *NameTable) Set(name string, v int64) {
	t.vars[name] = Variable{Name: name, Value: v}
}

// Names returns the bound names in sorted order.
func (t *NameTable) Names() []string {
	names := make([]string, 0, len(t.vars))
	for k := range t.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the current bindings.
func (t *NameTable) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(t.vars))
	for k, v := range t.vars {
		out[k] = v.Value
	}
	return out
}

// Reset drops every binding so the table can be reused.
func (t *NameTable) Reset() {
	for k := range t.vars {
		delete(t.vars, k)
	}
}
