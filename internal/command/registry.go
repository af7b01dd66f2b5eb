package command

import "fmt"

// Registry maps command tokens (canonical names and aliases) to their
// descriptors. Registration happens once at process start and the registry
// is read-only afterwards, so lookups take no lock.
type Registry struct {
	byToken map[string]*Descriptor
	ordered []*Descriptor
}

func NewRegistry() *Registry {
	return &Registry{byToken: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Name or alias collisions and malformed
// descriptors are configuration errors and fail registration outright.
func (r *Registry) Register(d *Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("command with empty name")
	}
	if d.Handler == nil {
		return fmt.Errorf("command %q has no handler", d.Name)
	}
	if err := validateArgs(d); err != nil {
		return err
	}
	tokens := append([]string{d.Name}, d.Aliases...)
	for _, t := range tokens {
		if prev, exists := r.byToken[t]; exists {
			return fmt.Errorf("command token %q already registered by %q", t, prev.Name)
		}
	}
	for _, t := range tokens {
		r.byToken[t] = d
	}
	r.ordered = append(r.ordered, d)
	return nil
}

// Resolve looks up the exact token; there is no fuzzy matching and lookup
// is case-sensitive.
func (r *Registry) Resolve(token string) (*Descriptor, bool) {
	d, ok := r.byToken[token]
	return d, ok
}

// All returns descriptors in registration order, canonical entries only.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func validateArgs(d *Descriptor) error {
	seenOptional := false
	for i, a := range d.Args {
		if a.Name == "" {
			return fmt.Errorf("command %q: argument %d has no name", d.Name, i)
		}
		if a.Kind == ArgRest && i != len(d.Args)-1 {
			return fmt.Errorf("command %q: rest argument %q must be last", d.Name, a.Name)
		}
		optional := a.Optional || a.Default != ""
		if seenOptional && !optional {
			return fmt.Errorf("command %q: required argument %q follows an optional one", d.Name, a.Name)
		}
		seenOptional = seenOptional || optional
	}
	return nil
}
