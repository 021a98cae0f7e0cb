package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvscope/internal/analysis"
	"github.com/KaramelBytes/csvscope/internal/parser"
	"github.com/KaramelBytes/csvscope/internal/utils"
)

var (
	anaOutputPath string
	anaFormat     string
	anaDelimiter  string
	anaSampleRows int
	anaTopCorr    int
	anaSheetName  string
	anaSheetIndex int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX file and print its profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		popt, err := parserOptions(anaDelimiter, anaSheetName, anaSheetIndex)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd, anaFormat)
		if err != nil {
			return err
		}
		ropt := reportOptions(cmd, anaSampleRows, anaTopCorr)
		ropt.Name = filepath.Base(path)
		if anaSheetName != "" {
			ropt.Name = fmt.Sprintf("%s (sheet: %s)", ropt.Name, anaSheetName)
		}

		ds, err := analyzeFile(path, popt)
		if err != nil {
			return err
		}
		out, err := render(ds, format, ropt)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(out), "\n"))
		return nil
	},
}

// analyzeFile parses path with the matching parser and analyzes the table.
func analyzeFile(path string, opt parser.Options) (*analysis.ParsedDataset, error) {
	tbl, err := parser.ParseFile(path, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	ds, err := (&analysis.Analyzer{Logger: log}).AnalyzeTable(tbl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// render formats a dataset as Markdown or indented JSON.
func render(ds *analysis.ParsedDataset, format string, ropt analysis.ReportOptions) ([]byte, error) {
	if format == "json" {
		return utils.PrettyJSON(ds)
	}
	return []byte(ds.Markdown(ropt)), nil
}

func parserOptions(delim, sheetName string, sheetIndex int) (parser.Options, error) {
	opt := parser.Options{SheetName: sheetName, SheetIndex: sheetIndex}
	switch delim {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delim)
	}
	return opt, nil
}

// outputFormat resolves --format against the configured default.
func outputFormat(cmd *cobra.Command, flag string) (string, error) {
	format := cfg.OutputFormat
	if cmd.Flags().Changed("format") {
		format = strings.ToLower(flag)
	}
	switch format {
	case "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown or json)", format)
}

// reportOptions takes sample and correlation limits from flags when set,
// from config otherwise.
func reportOptions(cmd *cobra.Command, sampleRows, topCorr int) analysis.ReportOptions {
	opt := analysis.ReportOptions{SampleRows: cfg.SampleRows, TopCorrelations: cfg.TopCorrelations}
	if cmd.Flags().Changed("sample-rows") && sampleRows >= 0 {
		opt.SampleRows = sampleRows
	}
	if cmd.Flags().Changed("top-correlations") && topCorr >= 0 {
		opt.TopCorrelations = topCorr
	}
	return opt
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown | json (default from config)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows in the Markdown report")
	analyzeCmd.Flags().IntVar(&anaTopCorr, "top-correlations", 10, "correlation pairs listed in the Markdown report (0 = all)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
