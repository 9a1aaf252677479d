package analysis

import (
	"fmt"

	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/bom"
)

// CostLine records one component visit during a roll-up crawl, in visit
// order. The reporter renders these as the verbose nested detail; the
// computation itself never prints.
type CostLine struct {
	Component bom.ItemNo
	QtyPer    float64

	// ComponentCost is the amount this visit added to the root's total:
	// unit cost times cumulative quantity for a Purchase component, 0 for
	// anything else.
	ComponentCost float64

	// QtyPerTop is the cumulative multiplier relative to the root at this
	// visit.
	QtyPerTop float64

	Replenishment bom.ReplenishmentSystem
	UnitCost      float64

	// Level is the nesting depth below the root, starting at 1 for the
	// root's own components.
	Level int
}

// CostResult is the rolled-up cost of one root product's full expansion.
type CostResult struct {
	Root bom.ItemNo

	// Total is the exact accumulated value; rounding to 4 decimal places
	// is a rendering concern.
	Total float64

	Lines []CostLine
}

// costCrawl carries one root's traversal state: the running total and the
// on-path set. Built only by RollUpCost, never shared across roots.
type costCrawl struct {
	cat    *bom.Catalogue
	total  float64
	lines  []CostLine
	onPath map[bom.ItemNo]bool
	path   []bom.ItemNo
}

// RollUpCost computes the total purchased-component cost of rootId's full
// expansion. Depth-first over each product's component list in input order:
// a resolved component's QtyPerTop becomes the parent's QtyPerTop times the
// edge quantity; a Purchase component contributes unit cost times QtyPerTop
// to the total; recursion continues regardless of replenishment system, so
// a Prod. Order component's own purchased sub-components still count. An
// unresolved component gets a warning on the product that named it and ends
// that branch.
//
// QtyPerTop is left on every visited product as a side effect, valid only
// for this root until the next crawl overwrites it. A cyclic expansion
// returns ErrCycleDetected.
func RollUpCost(cat *bom.Catalogue, rootId bom.ItemNo) (*CostResult, error) {
	root, ok := cat.Lookup(rootId)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoot, rootId)
	}

	root.QtyPerTop = 1.0
	crawl := &costCrawl{
		cat:    cat,
		onPath: map[bom.ItemNo]bool{rootId: true},
		path:   []bom.ItemNo{rootId},
	}
	if err := crawl.visit(root, 1); err != nil {
		return nil, err
	}
	return &CostResult{Root: rootId, Total: crawl.total, Lines: crawl.lines}, nil
}

// RollUpAllCosts rolls up every product in catalogue order, each as its own
// root with a fresh accumulator.
func RollUpAllCosts(cat *bom.Catalogue) ([]*CostResult, error) {
	results := make([]*CostResult, 0, cat.Len())
	for _, p := range cat.Items() {
		res, err := RollUpCost(cat, p.Id)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *costCrawl) visit(p *bom.Product, level int) error {
	parentQty := p.QtyPerTop

	for _, ref := range p.Components {
		child, ok := c.cat.Lookup(ref.Component)
		if !ok {
			p.Diagnose(unresolvedDiagnostic(p.Id, ref.Component))
			continue
		}

		child.QtyPerTop = parentQty * ref.QtyPer

		componentCost := 0.0
		if child.Replenishment == bom.ReplenishmentPurchase {
			componentCost = child.UnitCost * child.QtyPerTop
			c.total += componentCost
		}

		c.lines = append(c.lines, CostLine{
			Component:     ref.Component,
			QtyPer:        ref.QtyPer,
			ComponentCost: componentCost,
			QtyPerTop:     child.QtyPerTop,
			Replenishment: child.Replenishment,
			UnitCost:      child.UnitCost,
			Level:         level,
		})

		if c.onPath[ref.Component] {
			return cycleError(c.path, ref.Component)
		}
		c.onPath[ref.Component] = true
		c.path = append(c.path, ref.Component)
		err := c.visit(child, level+1)
		c.path = c.path[:len(c.path)-1]
		delete(c.onPath, ref.Component)
		if err != nil {
			return err
		}
	}
	return nil
}
