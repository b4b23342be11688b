package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"exifglass/internal/exiftool"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "export <file> [-- exiftool-args...]",
		Short: "Export the metadata of a file as text, CSV, or JSON",
		Long: "Export the metadata of a file as text, CSV, or JSON.\n\n" +
			"Without --output the export is written next to the file as <name>.<ext>. Use --output - for stdout.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := exiftool.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			path, extra := args[0], args[1:]
			return ctx.withSession(func(session *exiftool.Session) error {
				store, err := session.Read(cmd.Context(), path, extra...)
				if err != nil {
					return err
				}

				dest := strings.TrimSpace(outputFlag)
				if dest == "-" {
					if store.IsEmpty() {
						return exiftool.ErrNothingToExport
					}
					data, err := exiftool.Render(format, store)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if dest == "" {
					dest = defaultExportPath(path, filepath.Dir(path), format)
				} else if samePath(dest, path) {
					return fmt.Errorf("refusing to export over the input file %s", path)
				}
				if err := session.Export(format, dest); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tags to %s\n", store.Len(), dest)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Export format: text, csv, or json")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination file (default <name>.<ext> next to the input; - for stdout)")
	return cmd
}

const metadataSuffix = "_metadata"

// defaultExportPath returns "<stem><ext>" in dir, or "<stem>_metadata<ext>"
// when the plain name is the input file itself (notes.txt exported as text).
func defaultExportPath(input, dir string, format exiftool.Format) string {
	dest := filepath.Join(dir, exiftool.SuggestedExportName(input, format))
	if samePath(dest, input) {
		dest = filepath.Join(dir, metadataExportName(input, format))
	}
	return dest
}

func metadataExportName(input string, format exiftool.Format) string {
	name := exiftool.SuggestedExportName(input, format)
	return strings.TrimSuffix(name, format.Extension()) + metadataSuffix + format.Extension()
}

// samePath reports whether a and b name the same file. Existing files are
// compared by identity so symlinks and case-insensitive filesystems match.
func samePath(a, b string) bool {
	if infoA, err := os.Stat(a); err == nil {
		if infoB, err := os.Stat(b); err == nil {
			return os.SameFile(infoA, infoB)
		}
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
