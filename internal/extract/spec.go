// Package extract holds declarative table extraction specs, the named spec
// registry and the table extractor that applies a spec to a rendered page.
package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

var (
	// ErrConfigNotFound is returned when a spec name is not registered.
	ErrConfigNotFound = eris.New("extract: spec not found")

	// ErrInvalidSpec is returned when a spec is missing a locator or columns.
	ErrInvalidSpec = eris.New("extract: invalid spec")
)

// Column maps one canonical output field to a source header label.
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

// ColumnMap is an ordered field → header mapping. In YAML and JSON it is
// written as a plain mapping whose key order is preserved.
type ColumnMap []Column

// Fields returns the canonical field names in order.
func (m ColumnMap) Fields() []string {
	out := make([]string, len(m))
	for i, c := range m {
		out[i] = c.Field
	}
	return out
}

// UnmarshalYAML reads a mapping node in document order and rejects duplicate
// field names.
func (m *ColumnMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return eris.Errorf("extract: columns must be a mapping (line %d)", node.Line)
	}
	seen := make(map[string]bool, len(node.Content)/2)
	out := make(ColumnMap, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var field, header string
		if err := node.Content[i].Decode(&field); err != nil {
			return eris.Wrapf(err, "extract: column key (line %d)", node.Content[i].Line)
		}
		if err := node.Content[i+1].Decode(&header); err != nil {
			return eris.Wrapf(err, "extract: column %q header (line %d)", field, node.Content[i+1].Line)
		}
		if seen[field] {
			return eris.Errorf("extract: duplicate column %q (line %d)", field, node.Content[i].Line)
		}
		seen[field] = true
		out = append(out, Column{Field: field, Header: header})
	}
	*m = out
	return nil
}

// MarshalYAML writes the columns as an ordered mapping.
func (m ColumnMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Field},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Header},
		)
	}
	return node, nil
}

// MarshalJSON writes the columns as an object with keys in spec order.
func (m ColumnMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Header)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Spec describes how to find one table on a page and map its columns onto
// canonical record fields. Selectors are CSS selectors.
type Spec struct {
	TableSelector  string    `yaml:"table_selector" json:"table_selector"`
	HeaderSelector string    `yaml:"header_selector" json:"header_selector"`
	RowSelector    string    `yaml:"row_selector" json:"row_selector"`
	CellSelector   string    `yaml:"cell_selector" json:"cell_selector"`
	LabelField     string    `yaml:"label_field,omitempty" json:"label_field,omitempty"`
	Columns        ColumnMap `yaml:"columns" json:"columns"`
}

// Label returns the label field name, defaulting to "Event".
func (s Spec) Label() string {
	if s.LabelField == "" {
		return model.DefaultLabelField
	}
	return s.LabelField
}

// Fields returns the full record schema: the label field then every column.
func (s Spec) Fields() []string {
	return append([]string{s.Label()}, s.Columns.Fields()...)
}

// Validate reports the first missing locator, an empty column map, or a column
// that collides with the label field.
func (s Spec) Validate() error {
	locators := []struct {
		name, value string
	}{
		{"table_selector", s.TableSelector},
		{"header_selector", s.HeaderSelector},
		{"row_selector", s.RowSelector},
		{"cell_selector", s.CellSelector},
	}
	for _, l := range locators {
		if strings.TrimSpace(l.value) == "" {
			return eris.Wrapf(ErrInvalidSpec, "%s is empty", l.name)
		}
	}
	if len(s.Columns) == 0 {
		return eris.Wrap(ErrInvalidSpec, "columns is empty")
	}
	label := s.Label()
	for _, c := range s.Columns {
		if c.Field == "" {
			return eris.Wrap(ErrInvalidSpec, "column with empty field name")
		}
		if c.Field == label {
			return eris.Wrapf(ErrInvalidSpec, "column %q collides with label field", c.Field)
		}
	}
	return nil
}

// clone returns a copy that shares no slice storage with s.
func (s Spec) clone() Spec {
	out := s
	out.Columns = append(ColumnMap(nil), s.Columns...)
	return out
}
