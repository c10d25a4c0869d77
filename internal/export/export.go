// Package export writes extracted records to local files.
package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Ayushprasai11/Valorant/internal/model"
)

// SheetName is the worksheet name used for xlsx exports.
const SheetName = "records"

// Write exports records to path. The format follows the file extension:
// ".json" or ".xlsx". columns fixes the leading column order; fields not
// listed follow in sorted order.
func Write(path string, columns []string, records []model.Record) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", path)
		}
		if err := WriteJSON(f, records); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		return eris.Wrapf(f.Close(), "export: close %s", path)
	case ".xlsx":
		return WriteXLSX(path, columns, records)
	default:
		return eris.Errorf("export: unsupported file extension %q (valid: .json, .xlsx)", filepath.Ext(path))
	}
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return eris.Wrap(err, "export: encode json")
	}
	return nil
}

// WriteXLSX writes records to a single-sheet workbook with a header row.
func WriteXLSX(path string, columns []string, records []model.Record) error {
	header := Columns(columns, records)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	row := sheet.AddRow()
	for _, h := range header {
		row.AddCell().SetString(h)
	}
	for _, rec := range records {
		row := sheet.AddRow()
		for _, h := range header {
			row.AddCell().SetString(rec[h])
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// Columns returns preferred followed by every other field present in
// records, sorted.
func Columns(preferred []string, records []model.Record) []string {
	seen := make(map[string]bool, len(preferred))
	out := make([]string, 0, len(preferred))
	for _, c := range preferred {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	var extra []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
