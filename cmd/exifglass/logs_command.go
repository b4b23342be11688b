package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"exifglass/internal/logging"
	"exifglass/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var session string
	var file string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent exifglass log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := logging.LogFilePath(cfg)
			if path == "" {
				return errors.New("file logging is disabled (paths.log_dir is empty)")
			}

			match := ""
			switch {
			case strings.TrimSpace(session) != "":
				match = logging.FieldSessionID + "=" + strings.TrimSpace(session)
			case strings.TrimSpace(file) != "":
				match = strings.TrimSpace(file)
			}

			out := cmd.OutOrStdout()
			chunk, err := logs.Last(path, lines, match)
			if err != nil {
				return err
			}
			printLogLines(out, chunk.Lines)
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, chunk.Offset, match, 250*time.Millisecond, func(batch []string) error {
				printLogLines(out, batch)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries")
	cmd.Flags().StringVar(&session, "session", "", "Only show entries of this session id")
	cmd.Flags().StringVar(&file, "file", "", "Only show entries mentioning this file")
	return cmd
}

func printLogLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}
