package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exifglass/internal/deps"
	"exifglass/internal/logging"
	"exifglass/internal/preflight"
	"exifglass/internal/tagcache"
)

type statusReport struct {
	Dependencies []deps.Status      `json:"dependencies"`
	Directories  []preflight.Result `json:"directories"`
	Cache        *tagcache.Stats    `json:"cache,omitempty"`
	LogFile      string             `json:"log_file,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check exiftool availability and configured directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			report := statusReport{
				Dependencies: preflight.CheckSystemDeps(cmd.Context(), cfg),
				Directories:  preflight.RunAll(cfg),
				LogFile:      logging.LogFilePath(cfg),
			}
			var cacheErr error
			if cfg.Cache.Enabled {
				report.Cache, cacheErr = cacheStats(cmd, cfg.Cache.Path)
			}

			if jsonOutput {
				return writeJSON(cmd, report)
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range dependencyLines(report.Dependencies, colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range preflightLines(report.Directories, colorize) {
				fmt.Fprintln(stdout, line)
			}
			if report.LogFile != "" {
				fmt.Fprintln(stdout, renderStatusLine("Log file", statusInfo, report.LogFile, colorize))
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Metadata Cache", colorize) {
				fmt.Fprintln(stdout, line)
			}
			switch {
			case !cfg.Cache.Enabled:
				fmt.Fprintln(stdout, renderStatusLine("Cache", statusInfo, "Disabled", colorize))
			case cacheErr != nil:
				fmt.Fprintln(stdout, renderStatusLine("Cache", statusWarn, cacheErr.Error(), colorize))
			default:
				detail := fmt.Sprintf("%d reads, %d tags (%s)", report.Cache.Entries, report.Cache.Tags, report.Cache.Path)
				fmt.Fprintln(stdout, renderStatusLine("Cache", statusOK, detail, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
	return cmd
}

func cacheStats(cmd *cobra.Command, path string) (*tagcache.Stats, error) {
	cache, err := tagcache.OpenPath(path)
	if err != nil {
		return nil, err
	}
	defer cache.Close()
	stats, err := cache.Stats(cmd.Context())
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
