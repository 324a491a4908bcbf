package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is an immutable set of tool definitions keyed by lower-cased name.
// It is safe for concurrent use without locking.
type Registry struct {
	tools map[string]ToolDefinition
	names []string
}

// NewRegistry validates the definitions and builds a registry.
func NewRegistry(defs []ToolDefinition) (*Registry, error) {
	r := &Registry{tools: make(map[string]ToolDefinition, len(defs))}

	for _, def := range defs {
		if err := validate(def); err != nil {
			return nil, err
		}
		key := strings.ToLower(def.Name)
		if _, exists := r.tools[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
		}
		r.tools[key] = def.withDefaults()
		r.names = append(r.names, def.Name)
	}

	sort.Strings(r.names)
	return r, nil
}

func validate(def ToolDefinition) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTool)
	}
	if strings.ContainsAny(def.Name, " \t\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidTool, def.Name)
	}
	if !def.HasPackages() && !def.BuiltIn {
		return fmt.Errorf("%w: %s has no package identifiers and is not built in", ErrInvalidTool, def.Name)
	}
	return nil
}

// Lookup finds a tool by name, ignoring case.
func (r *Registry) Lookup(name string) (ToolDefinition, bool) {
	def, ok := r.tools[strings.ToLower(strings.TrimSpace(name))]
	return def, ok
}

// Names returns all tool names sorted alphabetically.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// All returns all definitions sorted by name.
func (r *Registry) All() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.names))
	for _, name := range r.names {
		defs = append(defs, r.tools[strings.ToLower(name)])
	}
	return defs
}

// Len returns the number of tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Merge returns a new registry holding r's tools overridden by other's.
func (r *Registry) Merge(other *Registry) (*Registry, error) {
	merged := make(map[string]ToolDefinition, r.Len()+other.Len())
	for key, def := range r.tools {
		merged[key] = def
	}
	for key, def := range other.tools {
		merged[key] = def
	}

	defs := make([]ToolDefinition, 0, len(merged))
	for _, def := range merged {
		defs = append(defs, def)
	}
	return NewRegistry(defs)
}
