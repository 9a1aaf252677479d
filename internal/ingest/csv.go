// Package ingest decodes the delimited BOM export into a populated product
// catalogue. One row is one product-component edge (or a product with no
// components when the component column is empty); the adapter cleans the
// numeric columns before the core ever sees a tuple.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/bom"
	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/config"
)

// Reader decodes one CSV export into a catalogue.
type Reader struct {
	cols config.Columns
	log  *slog.Logger
}

func NewReader(cols config.Columns, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{cols: cols, log: logger}
}

// ReadFile opens path and decodes it with Read.
func (r *Reader) ReadFile(path string) (*bom.Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input %q: %w", path, err)
	}
	defer f.Close()
	return r.Read(f)
}

// Read decodes the export and populates a catalogue. Product entries are
// created on first reference; repeated rows for the same product append
// further component edges to the entry the first row created.
//
// Row handling:
//   - A non-numeric or missing Item No. maps the row onto the NAN sentinel
//     product and records a warning against it.
//   - An empty component column records a product with no components.
//   - A component reference repeated within one product records a warning
//     and keeps both edges.
//   - A quantity-per that fails to parse, or is not positive, rejects the
//     edge with a log entry rather than coercing it.
func (r *Reader) Read(src io.Reader) (*bom.Catalogue, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header row: %w", err)
	}
	idx, err := r.columnIndexes(header)
	if err != nil {
		return nil, err
	}

	cat := bom.NewCatalogue()
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read row %d: %w", row, err)
		}
		r.ingestRow(cat, rec, idx, row)
	}
	return cat, nil
}

// columns holds the resolved position of each required column.
type columns struct {
	item, component, qtyPer, replenishment, unitCost int
}

func (r *Reader) columnIndexes(header []string) (columns, error) {
	find := func(name string) (int, error) {
		for i, h := range header {
			if strings.TrimSpace(h) == name {
				return i, nil
			}
		}
		return 0, fmt.Errorf("input is missing column %q", name)
	}

	var idx columns
	var err error
	if idx.item, err = find(r.cols.ItemNo); err != nil {
		return idx, err
	}
	if idx.component, err = find(r.cols.ComponentNo); err != nil {
		return idx, err
	}
	if idx.qtyPer, err = find(r.cols.QuantityPer); err != nil {
		return idx, err
	}
	if idx.replenishment, err = find(r.cols.Replenishment); err != nil {
		return idx, err
	}
	if idx.unitCost, err = find(r.cols.UnitCost); err != nil {
		return idx, err
	}
	return idx, nil
}

func (r *Reader) ingestRow(cat *bom.Catalogue, rec []string, idx columns, row int) {
	cell := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	rawItem := cell(idx.item)
	id := bom.NormalizeItemNo(rawItem)

	replenishment := bom.ParseReplenishmentSystem(cell(idx.replenishment))

	unitCost, err := cleanNumber(cell(idx.unitCost))
	if err != nil {
		r.log.Warn("unit cost unreadable, treated as zero",
			"row", row, "item", rawItem, "value", cell(idx.unitCost))
		unitCost = 0
	}

	p := cat.GetOrCreate(id, replenishment, unitCost)
	if !id.Valid() {
		p.Diagnose(fmt.Sprintf("Non-numeric Item No. detected in raw data, value read was: %s on row %d", rawItem, row))
	}

	rawComponent := cell(idx.component)
	if rawComponent == "" {
		// A product row with no component edge.
		return
	}

	compId := bom.NormalizeItemNo(rawComponent)
	if !compId.Valid() {
		r.log.Warn("component reference is not numeric, edge dropped",
			"row", row, "item", id.String(), "component", rawComponent)
		return
	}

	qtyPer, err := cleanNumber(cell(idx.qtyPer))
	if err != nil || qtyPer <= 0 {
		r.log.Warn("quantity per is not a positive number, edge dropped",
			"row", row, "item", id.String(), "component", compId.String(),
			"value", cell(idx.qtyPer))
		return
	}

	if p.HasComponent(compId) {
		p.Diagnose(fmt.Sprintf("Product %s refers to component product %s more than once.", id, compId))
	}
	p.Components = append(p.Components, bom.ComponentRef{Component: compId, QtyPer: qtyPer})
}

// cleanNumber parses a decimal cell after stripping thousands separators and
// a trailing decimal point, both of which the source export produces.
func cleanNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	return strconv.ParseFloat(s, 64)
}
