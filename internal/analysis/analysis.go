// Package analysis implements the three passes over a product catalogue:
// validation of component references, component-tree depth computation, and
// rolled-up purchase-cost computation.
//
// Each traversal keeps its state (level counters, the cost accumulator, the
// on-path set used for cycle detection) in an unexported crawl struct that
// only the exported entry point constructs, so a recursive step can never
// run without its initialising pass.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/bom"
)

// ErrCycleDetected is returned when a traversal meets a product that is
// already on the path from the current root. The source data is required to
// be acyclic; a cycle is fatal and catalogue state after it must not be
// reused.
var ErrCycleDetected = errors.New("cycle detected in product component graph")

// ErrUnknownRoot is returned when a roll-up is requested for a product that
// is not defined in the catalogue.
var ErrUnknownRoot = errors.New("product is not defined in the catalogue")

func cycleError(path []bom.ItemNo, repeated bom.ItemNo) error {
	ids := make([]string, 0, len(path)+1)
	for _, id := range path {
		ids = append(ids, id.String())
	}
	ids = append(ids, repeated.String())
	return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(ids, " -> "))
}

// unresolvedDiagnostic is the warning attached to a product that references
// a component with no definition in the source data. The validator, the
// depth pass and the cost pass each derive it independently; re-running a
// pass without clearing diagnostics duplicates entries by design.
func unresolvedDiagnostic(owner, missing bom.ItemNo) string {
	return fmt.Sprintf("Product %s refers to product %s for which there is no definition in the source data.", owner, missing)
}

// Validate walks the catalogue once and flags every component reference
// whose component is not a catalogue key, appending the warning to the
// referencing product. Callers wanting a clean report reset diagnostics
// first.
func Validate(cat *bom.Catalogue) {
	for _, p := range cat.Items() {
		for _, ref := range p.Components {
			if _, ok := cat.Lookup(ref.Component); !ok {
				p.Diagnose(unresolvedDiagnostic(p.Id, ref.Component))
			}
		}
	}
}

// Result bundles everything a full analysis run produced for one catalogue.
type Result struct {
	Catalogue *bom.Catalogue

	// Warnings are the validator's findings, flattened in catalogue order.
	Warnings []string

	// Depths maps every product to its component-tree depth.
	Depths map[bom.ItemNo]int

	// Costs holds one roll-up result per product, in catalogue order.
	Costs []*CostResult
}

// Run executes the three passes in their canonical order, resetting
// diagnostics between passes so each report carries only its own warnings.
func Run(cat *bom.Catalogue) (*Result, error) {
	cat.ResetDiagnostics()
	Validate(cat)

	var warnings []string
	for _, p := range cat.Items() {
		warnings = append(warnings, p.Diagnostics...)
	}

	cat.ResetDiagnostics()
	depths, err := ComputeDepths(cat)
	if err != nil {
		return nil, err
	}

	cat.ResetDiagnostics()
	costs, err := RollUpAllCosts(cat)
	if err != nil {
		return nil, err
	}

	return &Result{
		Catalogue: cat,
		Warnings:  warnings,
		Depths:    depths,
		Costs:     costs,
	}, nil
}
