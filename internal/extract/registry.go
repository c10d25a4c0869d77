package extract

import "github.com/rotisserie/eris"

// Registry maps spec names to specs. Registering an existing name replaces
// the spec but keeps its original position.
type Registry struct {
	specs map[string]Spec
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register validates spec and stores it under name. Last write wins.
func (r *Registry) Register(name string, spec Spec) error {
	if name == "" {
		return eris.New("extract: register: empty spec name")
	}
	if err := spec.Validate(); err != nil {
		return eris.Wrapf(err, "extract: register %q", name)
	}
	if _, ok := r.specs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.specs[name] = spec.clone()
	return nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, error) {
	s, ok := r.specs[name]
	if !ok {
		return Spec{}, eris.Wrapf(ErrConfigNotFound, "spec %q", name)
	}
	return s.clone(), nil
}

// Names returns registered names in first-registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered specs.
func (r *Registry) Len() int {
	return len(r.specs)
}
