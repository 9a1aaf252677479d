package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/analysis"
)

// ---- analysis report JSON types ----

type jsonReport struct {
	Warnings []string      `json:"warnings,omitempty"`
	Products []jsonProduct `json:"products"`
}

type jsonProduct struct {
	ItemNo        string          `json:"itemNo"`
	Replenishment string          `json:"replenishmentSystem"`
	UnitCost      float64         `json:"unitCost"`
	Depth         int             `json:"depth"`
	RolledUpCost  float64         `json:"rolledUpCost"`
	Components    []jsonComponent `json:"components,omitempty"`
	Diagnostics   []string        `json:"diagnostics,omitempty"`
}

// jsonComponent is one visit of the product's cost crawl, in visit order.
type jsonComponent struct {
	ItemNo        string  `json:"itemNo"`
	QtyPer        float64 `json:"qtyPer"`
	QtyPerTop     float64 `json:"qtyPerTop"`
	ComponentCost float64 `json:"componentCost"`
	Replenishment string  `json:"replenishmentSystem"`
	UnitCost      float64 `json:"unitCost"`
	Level         int     `json:"level"`
}

// WriteJSON serialises a full analysis run and writes it to outputPath.
// If outputPath is "-", it writes to stdout. Rendered costs are rounded to
// 4 decimal places, matching the text reports.
func WriteJSON(res *analysis.Result, outputPath string) error {
	report := jsonReport{
		Warnings: res.Warnings,
		Products: make([]jsonProduct, 0, res.Catalogue.Len()),
	}

	costsByRoot := make(map[string]*analysis.CostResult, len(res.Costs))
	for _, c := range res.Costs {
		costsByRoot[c.Root.String()] = c
	}

	for _, p := range res.Catalogue.Items() {
		jp := jsonProduct{
			ItemNo:        p.Id.String(),
			Replenishment: p.Replenishment.String(),
			UnitCost:      p.UnitCost,
			Depth:         p.Depth,
			Diagnostics:   p.Diagnostics,
		}
		if c, ok := costsByRoot[p.Id.String()]; ok {
			jp.RolledUpCost = Round4(c.Total)
			for _, line := range c.Lines {
				jp.Components = append(jp.Components, jsonComponent{
					ItemNo:        line.Component.String(),
					QtyPer:        line.QtyPer,
					QtyPerTop:     line.QtyPerTop,
					ComponentCost: Round4(line.ComponentCost),
					Replenishment: line.Replenishment.String(),
					UnitCost:      line.UnitCost,
					Level:         line.Level,
				})
			}
		}
		report.Products = append(report.Products, jp)
	}

	return writeJSON(outputPath, report)
}

// writeJSON marshals v as indented JSON and writes it to outputPath (or stdout if "-").
func writeJSON(outputPath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report JSON: %w", err)
	}

	if outputPath == "-" {
		_, err = os.Stdout.Write(data)
		if err == nil {
			_, err = os.Stdout.WriteString("\n")
		}
		return err
	}

	return os.WriteFile(outputPath, append(data, '\n'), 0644)
}
