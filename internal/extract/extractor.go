package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Ayushprasai11/Valorant/internal/model"
	"github.com/Ayushprasai11/Valorant/internal/render"
)

// Page is the part of a renderer session the extractor reads. The extractor
// never navigates or closes it.
type Page interface {
	WaitFor(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
}

// Extract waits for spec's table on page, reads it, and returns one record per
// data row in document order, each stamped with label.
func Extract(ctx context.Context, page Page, spec Spec, label string) ([]model.Record, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if err := page.WaitFor(ctx, spec.TableSelector); err != nil {
		var ste *render.SelectorTimeoutError
		if errors.As(err, &ste) {
			return nil, err
		}
		return nil, &render.SelectorTimeoutError{Selector: spec.TableSelector, Err: err}
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "extract: read rendered document")
	}
	return ExtractHTML(html, spec, label)
}

// ExtractHTML applies spec to an already rendered document.
func ExtractHTML(html string, spec Spec, label string) ([]model.Record, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}

	table := doc.Find(spec.TableSelector).First()
	if table.Length() == 0 {
		return nil, &render.SelectorTimeoutError{Selector: spec.TableSelector}
	}

	headers := texts(table.Find(spec.HeaderSelector))

	var records []model.Record
	table.Find(spec.RowSelector).Each(func(i int, row *goquery.Selection) {
		cells := texts(row.Find(spec.CellSelector))
		if len(cells) != len(headers) {
			zap.L().Debug("extract: row width differs from header width",
				zap.Int("row", i),
				zap.Int("cells", len(cells)),
				zap.Int("headers", len(headers)),
			)
		}
		records = append(records, MapRow(model.NewRawRow(headers, cells), spec, label))
	})

	return records, nil
}

// MapRow builds the canonical record for one raw row. A column whose header is
// missing from the row, or whose cell is empty, gets "N/A".
func MapRow(raw model.RawRow, spec Spec, label string) model.Record {
	rec := make(model.Record, len(spec.Columns)+1)
	rec[spec.Label()] = label
	for _, c := range spec.Columns {
		v, ok := raw.Lookup(c.Header)
		if !ok || v == "" {
			v = model.NotAvailable
		}
		rec[c.Field] = v
	}
	return rec
}

// texts returns the trimmed text of every node in sel, in document order.
func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
