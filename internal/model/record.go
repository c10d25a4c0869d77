package model

// DefaultLabelField is the record field that carries the target label.
const DefaultLabelField = "Event"

// NotAvailable is written for a mapped field whose source header is absent
// from the row.
const NotAvailable = "N/A"

// Record is one normalized output row: canonical field name to value.
type Record map[string]string

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Cell is one header/value pair of a raw row.
type Cell struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// RawRow pairs header labels with cell text by position. It holds
// min(len(headers), len(cells)) entries.
type RawRow []Cell

// NewRawRow pairs headers[i] with cells[i]. Cells past the last header are
// dropped; headers past the last cell are left out.
func NewRawRow(headers, cells []string) RawRow {
	n := min(len(headers), len(cells))
	row := make(RawRow, n)
	for i := 0; i < n; i++ {
		row[i] = Cell{Header: headers[i], Value: cells[i]}
	}
	return row
}

// Lookup returns the value for header. When a header label repeats, the
// right-most occurrence wins.
func (r RawRow) Lookup(header string) (string, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Header == header {
			return r[i].Value, true
		}
	}
	return "", false
}
