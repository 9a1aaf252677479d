package analysis

import "github.com/Rhodri-Thomas/AnalyseProductTree/internal/bom"

// depthCrawl carries the traversal state for one root's depth computation:
// the level counters the recursion maintains and the on-path set used to
// detect cycles. A fresh crawl is built per root by ComputeDepths.
type depthCrawl struct {
	cat          *bom.Catalogue
	currentLevel int
	maxLevel     int
	onPath       map[bom.ItemNo]bool
	path         []bom.ItemNo
}

// ComputeDepths computes, for every product in catalogue order, the length
// of the longest chain of component expansion below it. Every component
// edge contributes 1 regardless of quantity; a product with no components
// has depth 0; an unresolved component terminates its path and appends the
// unresolved-reference warning to the product that named it (again, even if
// Validate already recorded it).
//
// The result map is keyed by product id. Each product's Depth field is also
// written, so a sub-product shared between roots keeps the value from the
// last root processed; read the field only for a top-level product right
// after its own traversal.
//
// A cyclic catalogue returns ErrCycleDetected; depths computed before the
// cycle was met are not valid.
func ComputeDepths(cat *bom.Catalogue) (map[bom.ItemNo]int, error) {
	depths := make(map[bom.ItemNo]int, cat.Len())
	for _, p := range cat.Items() {
		crawl := &depthCrawl{
			cat:    cat,
			onPath: map[bom.ItemNo]bool{p.Id: true},
			path:   []bom.ItemNo{p.Id},
		}
		if err := crawl.visit(p); err != nil {
			return nil, err
		}
		p.Depth = crawl.maxLevel
		depths[p.Id] = crawl.maxLevel
	}
	return depths, nil
}

func (d *depthCrawl) visit(p *bom.Product) error {
	for _, ref := range p.Components {
		d.currentLevel++

		if child, ok := d.cat.Lookup(ref.Component); ok {
			if d.onPath[ref.Component] {
				return cycleError(d.path, ref.Component)
			}
			d.onPath[ref.Component] = true
			d.path = append(d.path, ref.Component)
			err := d.visit(child)
			d.path = d.path[:len(d.path)-1]
			delete(d.onPath, ref.Component)
			if err != nil {
				return err
			}
		} else {
			p.Diagnose(unresolvedDiagnostic(p.Id, ref.Component))
		}

		// Record the deepest level reached; an unresolved edge still
		// counts its one level.
		if d.maxLevel < d.currentLevel {
			d.maxLevel = d.currentLevel
		}
		d.currentLevel--
	}
	return nil
}
