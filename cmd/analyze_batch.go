package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/csvscope/internal/utils"
)

var (
	abOutDir     string
	abFormat     string
	abDelimiter  string
	abSampleRows int
	abTopCorr    int
	abSheetName  string
	abSheetIndex int
	abWorkers    int
	abQuiet      bool
)

type batchJob struct {
	in, out string
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files concurrently and write one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := utils.ExpandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		popt, err := parserOptions(abDelimiter, abSheetName, abSheetIndex)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd, abFormat)
		if err != nil {
			return err
		}
		ropt := reportOptions(cmd, abSampleRows, abTopCorr)

		outDir := cfg.ReportsDir
		if cmd.Flags().Changed("out-dir") {
			outDir = abOutDir
		}
		if outDir == "" {
			outDir = "reports"
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		workers := cfg.BatchWorkers
		if cmd.Flags().Changed("workers") && abWorkers > 0 {
			workers = abWorkers
		}

		// Output names are fixed up front so that same-named inputs get
		// stable __N suffixes regardless of completion order.
		ext := ".summary.md"
		if format == "json" {
			ext = ".summary.json"
		}
		taken := map[string]bool{}
		jobs := make([]batchJob, len(files))
		for i, f := range files {
			jobs[i] = batchJob{in: f, out: utils.UniquePath(outDir, utils.Stem(f), ext, taken)}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		var mu sync.Mutex
		done := 0
		total := len(jobs)
		w := cmd.OutOrStdout()
		for _, job := range jobs {
			job := job // per-iteration copy; go.mod targets Go 1.21 loop semantics
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				ds, err := analyzeFile(job.in, popt)
				if err != nil {
					return err
				}
				opt := ropt
				opt.Name = filepath.Base(job.in)
				out, err := render(ds, format, opt)
				if err != nil {
					return err
				}
				if err := utils.SafeWriteFile(job.out, out); err != nil {
					return fmt.Errorf("write %s: %w", job.out, err)
				}
				log.WithFields(logrus.Fields{
					"file":   job.in,
					"report": job.out,
					"rows":   ds.Summary.RowCount,
				}).Debug("batch item done")

				mu.Lock()
				defer mu.Unlock()
				done++
				if !abQuiet {
					fmt.Fprintf(w, "[%d/%d] ✓ %s -> %s\n", done, total, filepath.Base(job.in), filepath.Base(job.out))
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if !abQuiet {
			noun := "files"
			if total == 1 {
				noun = "file"
			}
			fmt.Fprintf(w, "✓ Analyzed %d %s into %s\n", total, noun, strings.TrimSuffix(outDir, string(filepath.Separator)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for reports (default from config reports_dir)")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "markdown", "report format: markdown | json (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows in each Markdown report")
	analyzeBatchCmd.Flags().IntVar(&abTopCorr, "top-correlations", 10, "correlation pairs listed per report (0 = all)")
	analyzeBatchCmd.Flags().StringVar(&abSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeBatchCmd.Flags().IntVar(&abSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeBatchCmd.Flags().IntVar(&abWorkers, "workers", 0, "files analyzed in parallel (default from config batch_workers)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
