package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"exifglass/internal/exiftool"
	"exifglass/internal/preflight"
	"exifglass/internal/textutil"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "extract <file> <tag>",
		Short: "Extract a binary tag such as an embedded thumbnail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, tagName := args[0], strings.TrimSpace(args[1])
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if check := preflight.CheckDirectoryAccess("Extract directory", cfg.Exiftool.ExtractDir); !check.Passed {
				return fmt.Errorf("extract directory unavailable: %s", check.Detail)
			}

			return ctx.withSession(func(session *exiftool.Session) error {
				store, err := session.Read(cmd.Context(), path)
				if err != nil {
					return err
				}
				tag, ok := store.Find(tagName)
				if !ok {
					return fmt.Errorf("tag %q not found in %s", tagName, path)
				}
				if !tag.Extractable() {
					return fmt.Errorf("tag %q does not hold extractable binary data", tagName)
				}

				dest := strings.TrimSpace(outputFlag)
				if dest == "" {
					dest = filepath.Join(filepath.Dir(path), defaultExtractName(path, tagName))
				}
				if err := session.ExtractTag(cmd.Context(), tagName, dest); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Extracted %s to %s\n", tagName, dest)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination file (default <name>_<Tag>.jpg next to the input)")
	return cmd
}

func defaultExtractName(path, tagName string) string {
	return textutil.SanitizeFileName(exiftool.SuggestedExtractName(path, tagName))
}
