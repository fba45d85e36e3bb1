package runtime

import (
	"fmt"
	"strings"
)

// Registry is the immutable table of named commands. Build it once with
// NewRegistry and share it; there is no way to add or remove commands later.
type Registry struct {
	commands map[string]CommandSpec
	order    []string
}

// NewRegistry validates specs and returns the registry. Names must be
// unique, non-empty, lowercase single tokens with an Execute func.
func NewRegistry(specs ...CommandSpec) (*Registry, error) {
	r := &Registry{commands: make(map[string]CommandSpec, len(specs))}
	for _, s := range specs {
		if s.Name == "" || s.Execute == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCommand, s.Name)
		}
		if s.Name != strings.ToLower(s.Name) || strings.ContainsAny(s.Name, " \t\n") {
			return nil, fmt.Errorf("%w: %q must be a lowercase token", ErrInvalidCommand, s.Name)
		}
		if _, ok := r.commands[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCommand, s.Name)
		}
		if s.Category == "" {
			s.Category = CategoryInfo
		}
		r.commands[s.Name] = s
		r.order = append(r.order, s.Name)
	}
	return r, nil
}

// Lookup finds a command by exact name. No partial or fuzzy matching.
func (r *Registry) Lookup(name string) (CommandSpec, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ByCategory returns specs grouped by category, each group in registration order.
func (r *Registry) ByCategory() map[Category][]CommandSpec {
	result := make(map[Category][]CommandSpec)
	for _, name := range r.order {
		c := r.commands[name]
		result[c.Category] = append(result[c.Category], c)
	}
	return result
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.commands) }
