package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validSpec() Spec {
	return Spec{
		TableSelector:  "div.table-responsive",
		HeaderSelector: "thead th",
		RowSelector:    "tbody tr",
		CellSelector:   "td",
		Columns: ColumnMap{
			{Field: "Player", Header: "Player"},
			{Field: "Kills", Header: "K"},
		},
	}
}

func TestSpec_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Spec)
		wantErr string
	}{
		{name: "valid", mutate: func(*Spec) {}},
		{name: "no table", mutate: func(s *Spec) { s.TableSelector = "" }, wantErr: "table_selector is empty"},
		{name: "blank header", mutate: func(s *Spec) { s.HeaderSelector = "  " }, wantErr: "header_selector is empty"},
		{name: "no row", mutate: func(s *Spec) { s.RowSelector = "" }, wantErr: "row_selector is empty"},
		{name: "no cell", mutate: func(s *Spec) { s.CellSelector = "" }, wantErr: "cell_selector is empty"},
		{name: "no columns", mutate: func(s *Spec) { s.Columns = nil }, wantErr: "columns is empty"},
		{name: "empty field", mutate: func(s *Spec) { s.Columns = ColumnMap{{Header: "K"}} }, wantErr: "empty field name"},
		{name: "label collision", mutate: func(s *Spec) { s.Columns = ColumnMap{{Field: "Event", Header: "Event"}} }, wantErr: "collides with label field"},
		{
			name: "custom label collision",
			mutate: func(s *Spec) {
				s.LabelField = "Tournament"
				s.Columns = ColumnMap{{Field: "Tournament", Header: "T"}}
			},
			wantErr: "collides",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := validSpec()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSpec))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSpec_LabelAndFields(t *testing.T) {
	t.Parallel()

	s := validSpec()
	assert.Equal(t, "Event", s.Label())
	assert.Equal(t, []string{"Event", "Player", "Kills"}, s.Fields())

	s.LabelField = "Tournament"
	assert.Equal(t, []string{"Tournament", "Player", "Kills"}, s.Fields())
}

func TestColumnMap_YAMLRoundTripKeepsOrder(t *testing.T) {
	t.Parallel()

	src := `
Rank: "#"
Player: Player
Kills: K
ACS_Map: ACS/Map
`
	var m ColumnMap
	require.NoError(t, yaml.Unmarshal([]byte(src), &m))
	assert.Equal(t, []string{"Rank", "Player", "Kills", "ACS_Map"}, m.Fields())
	assert.Equal(t, "#", m[0].Header)

	out, err := yaml.Marshal(m)
	require.NoError(t, err)
	var back ColumnMap
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, m, back)
}

func TestColumnMap_YAMLRejectsDuplicates(t *testing.T) {
	t.Parallel()

	var m ColumnMap
	err := yaml.Unmarshal([]byte("Kills: K\nKills: Kills\n"), &m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestColumnMap_YAMLRejectsSequence(t *testing.T) {
	t.Parallel()

	var m ColumnMap
	err := yaml.Unmarshal([]byte("- Kills\n- Deaths\n"), &m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a mapping")
}

func TestColumnMap_MarshalJSON(t *testing.T) {
	t.Parallel()

	m := ColumnMap{{Field: "Rank", Header: "#"}, {Field: "Kills", Header: "K"}}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"Rank":"#","Kills":"K"}`, string(b))

	b, err = json.Marshal(ColumnMap{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}
