package registry

import (
	"fmt"
	"strings"
)

// DefaultModel is the model bound at startup when none is configured.
const DefaultModel = "deepseek-coder-v2"

// DefaultNames is the built-in list of permitted models.
var DefaultNames = []string{
	"deepseek-coder-v2",
	"codellama:7b",
	"codellama:13b",
	"llama3:8b",
	"mistral:7b",
}

// Registry is an ordered, immutable set of permitted model names.
type Registry struct {
	names []string
	index map[string]struct{}
}

// New builds a registry from names. Blank entries are skipped and duplicates
// keep their first position. An empty result is an error.
func New(names []string) (*Registry, error) {
	r := &Registry{index: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := r.index[n]; dup {
			continue
		}
		r.index[n] = struct{}{}
		r.names = append(r.names, n)
	}
	if len(r.names) == 0 {
		return nil, fmt.Errorf("registry: no model names")
	}
	return r, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, _ := New(DefaultNames)
	return r
}

// Contains reports whether name is permitted.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns a copy of the registry in order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of permitted models.
func (r *Registry) Len() int { return len(r.names) }
