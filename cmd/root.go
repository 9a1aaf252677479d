package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/analysis"
	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/bom"
	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/config"
	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/ingest"
	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/output"
)

const toolVersion = "1.0.0"

var (
	flagInput    string
	flagConfig   string
	flagOutput   string
	flagFormat   string
	flagVerbose  bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "analyseproducttree",
	Short: "BOM depth and rolled-up cost analyser",
	Long: `analyseproducttree reads a bill-of-materials export (one CSV row per
product-component edge) and reports, for every product:

  • Depth            — the longest chain of component expansion below it
  • Rolled-up cost   — the sum of every purchased component's unit cost,
                       weighted by its cumulative quantity per top item
  • Data warnings    — unresolved component references, duplicate references,
                       non-numeric item numbers`,
}

var analyseCmd = &cobra.Command{
	Use:   "analyse",
	Short: "Analyse a BOM export and report depths, costs and warnings",
	Long: `Analyse a BOM CSV export: validate component references, compute each
product's component-tree depth, and roll up purchased-component costs.

Examples:
  analyseproducttree analyse --input rll-items-bom-with-cost.csv
  analyseproducttree analyse --input bom.csv --verbose
  analyseproducttree analyse --input bom.csv --format json --output report.json
  analyseproducttree analyse --input bom.csv --config columns.yaml`,
	RunE: runAnalyse,
}

func init() {
	analyseCmd.Flags().StringVarP(&flagInput, "input", "i", "rll-items-bom-with-cost.csv", "Path to the BOM CSV export")
	analyseCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Optional YAML file remapping the CSV column headers")
	analyseCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", "Output file path (use '-' for stdout)")
	analyseCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format: text or json")
	analyseCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"Report nested per-component cost detail for every product\n"+
			"(component id, qty per, component cost, qty per top,\n"+
			"replenishment system, unit cost) instead of the concise table")
	analyseCmd.Flags().StringVar(&flagLogLevel, "log-level", "warn", "Ingestion log level: debug, info, warn or error")

	rootCmd.AddCommand(analyseCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the ingestion logger on stderr so row-level decisions
// never mix into the report stream.
func newLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
	}

	logger := newLogger(flagLogLevel)

	fmt.Fprintf(os.Stderr, "analyseproducttree v%s\n", toolVersion)
	fmt.Fprintf(os.Stderr, "Reading: %s\n", flagInput)

	cat, err := ingest.NewReader(cfg.Columns, logger).ReadFile(flagInput)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Catalogue holds %d product(s)\n", cat.Len())

	switch flagFormat {
	case "json":
		res, err := analysis.Run(cat)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		if err := output.WriteJSON(res, flagOutput); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
		if flagOutput != "-" {
			fmt.Fprintf(os.Stderr, "Report written to: %s\n", flagOutput)
		}
		return nil
	case "text":
		w, closeFn, err := openOutput(flagOutput)
		if err != nil {
			return err
		}
		defer closeFn()
		return runTextReports(w, cat)
	default:
		return fmt.Errorf("unsupported format %q (supported: text, json)", flagFormat)
	}
}

// runTextReports runs the passes in their canonical order, resetting
// diagnostics between them so each report carries only its own warnings.
func runTextReports(w io.Writer, cat *bom.Catalogue) error {
	cat.ResetDiagnostics()
	analysis.Validate(cat)
	output.WriteWarnings(w, cat)
	fmt.Fprintln(w)

	cat.ResetDiagnostics()
	if _, err := analysis.ComputeDepths(cat); err != nil {
		return fmt.Errorf("depth analysis failed: %w", err)
	}
	output.WriteDepths(w, cat)
	fmt.Fprintln(w)

	cat.ResetDiagnostics()
	costs, err := analysis.RollUpAllCosts(cat)
	if err != nil {
		return fmt.Errorf("cost roll-up failed: %w", err)
	}
	output.WriteCosts(w, cat, costs, flagVerbose)
	return nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output %q: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
