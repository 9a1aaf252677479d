// Package output renders catalogue state and analysis results as console
// reports and JSON. Computation never prints; everything here works off the
// structured results the analysis passes return.
package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/analysis"
	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/bom"
)

// Round4 rounds a cost for display to 4 decimal places. Only rendered values
// are rounded; accumulated totals keep full precision.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// WriteWarnings prints every product diagnostic currently on the catalogue,
// in catalogue order.
func WriteWarnings(w io.Writer, cat *bom.Catalogue) {
	fmt.Fprintln(w, "==================================")
	fmt.Fprintln(w, "=== Warnings About Source Data ===")
	fmt.Fprintln(w, "==================================")
	for _, p := range cat.Items() {
		for _, d := range p.Diagnostics {
			fmt.Fprintf(w, "      %s\n", d)
		}
	}
}

// WriteDepths prints the per-product component-tree depth table.
func WriteDepths(w io.Writer, cat *bom.Catalogue) {
	fmt.Fprintln(w, "=== Product Levels per Product ===")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Item No.", "Replenishment", "Depth"})
	for _, p := range cat.Items() {
		t.AppendRow(table.Row{p.Id.String(), p.Replenishment.String(), p.Depth})
	}
	t.Render()
}

// WriteCosts prints the rolled-up cost report. The concise form is one table
// row per product; the verbose form adds the nested per-component detail
// lines of each root's crawl, tab-indented by level, followed by the
// product's warnings.
func WriteCosts(w io.Writer, cat *bom.Catalogue, costs []*analysis.CostResult, verbose bool) {
	fmt.Fprintln(w, "=== Product Rolled Up Costs ===")
	if !verbose {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Item No.", "Rolled Up Cost"})
		for _, res := range costs {
			t.AppendRow(table.Row{res.Root.String(), fmt.Sprintf("%.4f", Round4(res.Total))})
		}
		t.Render()
		writeCatalogueWarnings(w, cat)
		return
	}

	for _, res := range costs {
		fmt.Fprintf(w, "Product: %s\n", res.Root)
		for _, line := range res.Lines {
			indent := strings.Repeat("\t", line.Level)
			fmt.Fprintf(w, "%s%s\tQtyPer:%.2f\tCompCost:%.2f\tQtyPerTop:%.2f\n",
				indent, line.Component, line.QtyPer, line.ComponentCost, line.QtyPerTop)
			fmt.Fprintf(w, "%sReplen:%s\tUnitCost:%g\n", indent, line.Replenishment, line.UnitCost)
		}
		if p, ok := cat.Lookup(res.Root); ok {
			for _, d := range p.Diagnostics {
				fmt.Fprintf(w, "      %s\n", d)
			}
		}
		fmt.Fprintf(w, "   TOTAL COMPONENT COST: %.4f\n\n", Round4(res.Total))
	}
}

func writeCatalogueWarnings(w io.Writer, cat *bom.Catalogue) {
	for _, p := range cat.Items() {
		for _, d := range p.Diagnostics {
			fmt.Fprintf(w, "      %s\n", d)
		}
	}
}
