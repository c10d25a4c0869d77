package extract

import (
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

// NamedSpec pairs a spec with its registry name.
type NamedSpec struct {
	Name string
	Spec Spec
}

// NamedSpecs is an ordered list of specs written in YAML as a mapping of
// name → spec.
type NamedSpecs []NamedSpec

// UnmarshalYAML keeps the document order of spec names.
func (n *NamedSpecs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return eris.Errorf("extract: specs must be a mapping (line %d)", node.Line)
	}
	out := make(NamedSpecs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return eris.Wrapf(err, "extract: spec name (line %d)", node.Content[i].Line)
		}
		var spec Spec
		if err := node.Content[i+1].Decode(&spec); err != nil {
			return eris.Wrapf(err, "extract: spec %q", name)
		}
		out = append(out, NamedSpec{Name: name, Spec: spec})
	}
	*n = out
	return nil
}

// SpecFile is the on-disk form of a set of specs and the targets that use
// them.
type SpecFile struct {
	Specs   NamedSpecs     `yaml:"specs"`
	Targets []model.Target `yaml:"targets"`
}

// LoadSpecFile reads and parses a YAML spec file. Specs are not validated
// here; Registry does that.
func LoadSpecFile(path string) (*SpecFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "extract: read spec file")
	}
	return ParseSpecFile(b)
}

// ParseSpecFile parses YAML spec file contents.
func ParseSpecFile(b []byte) (*SpecFile, error) {
	var sf SpecFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, eris.Wrap(err, "extract: parse spec file")
	}
	return &sf, nil
}

// Registry registers every spec in the file. The first invalid spec aborts.
func (f *SpecFile) Registry() (*Registry, error) {
	reg := NewRegistry()
	if err := f.RegisterInto(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// RegisterInto adds the file's specs to reg, overwriting same-named entries.
func (f *SpecFile) RegisterInto(reg *Registry) error {
	for _, ns := range f.Specs {
		if err := reg.Register(ns.Name, ns.Spec); err != nil {
			return err
		}
	}
	return nil
}

// RegisterValid adds every valid spec to reg and returns the errors of the
// ones it rejected. Targets naming a rejected spec are skipped at run time.
func (f *SpecFile) RegisterValid(reg *Registry) error {
	var errs []error
	for _, ns := range f.Specs {
		if err := reg.Register(ns.Name, ns.Spec); err != nil {
			errs = append(errs, eris.Wrapf(err, "spec %q", ns.Name))
		}
	}
	return errors.Join(errs...)
}

// Merge returns a file holding f's specs and targets followed by other's.
// Specs in other win on name collisions.
func (f *SpecFile) Merge(other *SpecFile) *SpecFile {
	out := &SpecFile{}
	out.Specs = append(out.Specs, f.Specs...)
	out.Specs = append(out.Specs, other.Specs...)
	out.Targets = append(out.Targets, f.Targets...)
	out.Targets = append(out.Targets, other.Targets...)
	return out
}

// UnknownSpecs returns the targets whose spec name is not registered in reg.
func (f *SpecFile) UnknownSpecs(reg *Registry) []model.Target {
	var out []model.Target
	for _, t := range f.Targets {
		if _, err := reg.Lookup(t.Spec); err != nil {
			out = append(out, t)
		}
	}
	return out
}
