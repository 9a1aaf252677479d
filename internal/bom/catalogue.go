package bom

// ComponentRef is one edge of the BOM relation: the owning product consumes
// QtyPer units of Component per unit of itself. Refs live only inside their
// product's component list; duplicates are retained in input order because a
// repeated reference is a data-quality diagnostic, not an error.
type ComponentRef struct {
	Component ItemNo
	QtyPer    float64
}

// Product is one catalogue entry. Catalogue membership and the component
// list are fixed once ingestion completes; only Depth, QtyPerTop and
// Diagnostics mutate afterwards, each during its own analysis pass.
type Product struct {
	Id            ItemNo
	Replenishment ReplenishmentSystem

	// UnitCost is the cost per unit when this product is purchased.
	// Ignored for any other replenishment system.
	UnitCost float64

	// Components in input row order.
	Components []ComponentRef

	// Depth is -1 until a depth pass has run. The field is shared across
	// traversals: a sub-product reached from several roots keeps the value
	// written by the last root processed, so callers read it for a top-level
	// product immediately after that product's own traversal.
	Depth int

	// QtyPerTop is the cumulative multiplier relative to the root of the
	// cost traversal currently (or most recently) in flight. It is reset to
	// 1.0 for each root and is only meaningful for that root's crawl.
	QtyPerTop float64

	// Diagnostics collects data-quality warnings in the order they were
	// discovered. Append-only within a pass; cleared between reporting
	// passes by the caller.
	Diagnostics []string
}

// NewProduct creates a catalogue entry with analysis fields at their
// pre-pass values.
func NewProduct(id ItemNo, replenishment ReplenishmentSystem, unitCost float64) *Product {
	return &Product{
		Id:            id,
		Replenishment: replenishment,
		UnitCost:      unitCost,
		Depth:         -1,
		QtyPerTop:     1.0,
	}
}

// Diagnose appends a data-quality warning to the product.
func (p *Product) Diagnose(msg string) {
	p.Diagnostics = append(p.Diagnostics, msg)
}

// HasComponent reports whether the component list already references id.
func (p *Product) HasComponent(id ItemNo) bool {
	for _, ref := range p.Components {
		if ref.Component == id {
			return true
		}
	}
	return false
}

// Catalogue maps canonical item numbers to products, preserving insertion
// order so that every analysis and report walks products in input order,
// the same order the source rows defined them.
type Catalogue struct {
	byId  map[ItemNo]*Product
	order []ItemNo
}

func NewCatalogue() *Catalogue {
	return &Catalogue{byId: make(map[ItemNo]*Product)}
}

// GetOrCreate returns the product for id, creating and registering it on
// first reference. Subsequent rows for the same product reuse the entry
// created by the first row (one row per component edge).
func (c *Catalogue) GetOrCreate(id ItemNo, replenishment ReplenishmentSystem, unitCost float64) *Product {
	if p, ok := c.byId[id]; ok {
		return p
	}
	p := NewProduct(id, replenishment, unitCost)
	c.byId[id] = p
	c.order = append(c.order, id)
	return p
}

// Lookup returns the product for id, if defined in the source data.
func (c *Catalogue) Lookup(id ItemNo) (*Product, bool) {
	p, ok := c.byId[id]
	return p, ok
}

// Items returns all products in insertion order.
func (c *Catalogue) Items() []*Product {
	items := make([]*Product, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.byId[id])
	}
	return items
}

func (c *Catalogue) Len() int { return len(c.order) }

// ResetDiagnostics empties every product's diagnostic list. Analysis passes
// append without deduplicating, so callers reset between passes when they
// want each report to carry only its own warnings.
func (c *Catalogue) ResetDiagnostics() {
	for _, id := range c.order {
		c.byId[id].Diagnostics = nil
	}
}
