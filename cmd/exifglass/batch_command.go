package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"exifglass/internal/exiftool"
	"exifglass/internal/logging"
)

type batchResult struct {
	File   string `json:"file"`
	Output string `json:"output,omitempty"`
	Tags   int    `json:"tags"`
	Error  string `json:"error,omitempty"`
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputDir string
	var concurrency int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Export the metadata of many files into one directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format, err := exiftool.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(outputDir)
			if dir == "" {
				return errors.New("--output-dir is required")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", dir, err)
			}
			limit := cfg.Batch.Concurrency
			if concurrency > 0 {
				limit = concurrency
			}

			factory, err := ctx.sessionFactory()
			if err != nil {
				return err
			}
			defer factory.Close()

			results, err := runBatch(cmd.Context(), factory, args, batchOutputs(args, dir, format), format, limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printBatchResults(cmd, results)
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Export format: text, csv, or json")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory receiving one export per input file")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Files read in parallel (default batch.concurrency)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}

// runBatch reads and exports every file with its own session. Per-file
// failures are reported in the results; only cancellation aborts the run.
func runBatch(ctx context.Context, factory *sessionFactory, files, outputs []string, format exiftool.Format, limit int) ([]batchResult, error) {
	results := make([]batchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, file := range files {
		results[i] = batchResult{File: file}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			session := factory.newSession()
			defer session.Cleanup()

			store, err := session.Read(gctx, file)
			if err == nil {
				results[i].Tags = store.Len()
				err = session.Export(format, outputs[i])
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			if err != nil {
				results[i].Error = describeError(err)
				factory.logger.Debug("batch file failed", logging.String(logging.FieldFile, file), logging.Error(err))
				return nil
			}
			results[i].Output = outputs[i]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// batchOutputs maps each input to "<stem><ext>" in dir, suffixing repeated
// stems with -2, -3, ... so inputs from different directories do not collide.
// A name that would land on one of the inputs gets the _metadata suffix.
func batchOutputs(files []string, dir string, format exiftool.Format) []string {
	inputs := make(map[string]bool, len(files))
	for _, file := range files {
		if abs, err := filepath.Abs(file); err == nil {
			inputs[abs] = true
		}
	}
	isInput := func(path string) bool {
		abs, err := filepath.Abs(path)
		return err == nil && inputs[abs]
	}

	outputs := make([]string, len(files))
	seen := make(map[string]int, len(files))
	for i, file := range files {
		name := filepath.Base(defaultExportPath(file, dir, format))
		if isInput(filepath.Join(dir, name)) {
			name = metadataExportName(file, format)
		}
		key := strings.ToLower(name)
		seen[key]++
		if n := seen[key]; n > 1 {
			ext := filepath.Ext(name)
			name = strings.TrimSuffix(name, ext) + "-" + strconv.Itoa(n) + ext
		}
		outputs[i] = filepath.Join(dir, name)
	}
	return outputs
}

func printBatchResults(cmd *cobra.Command, results []batchResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		outcome := r.Output
		if r.Error != "" {
			outcome = "failed: " + r.Error
		}
		rows = append(rows, []string{r.File, strconv.Itoa(r.Tags), outcome})
	}
	cols := columns("File", "Tags", "Result")
	cols[1].align = alignRight
	cols[2].maxWidth = valueColumnWidth
	fmt.Fprint(cmd.OutOrStdout(), renderTable(cols, rows))
}
