package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"exifglass/internal/exiftool"
)

const valueColumnWidth = 60

func newReadCommand(ctx *commandContext) *cobra.Command {
	var showCommand bool
	var extractableOnly bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "read <file> [-- exiftool-args...]",
		Short: "Show the metadata of a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, extra := args[0], args[1:]
			return ctx.withSession(func(session *exiftool.Session) error {
				out := cmd.OutOrStdout()
				if showCommand {
					fmt.Fprintf(out, "Command: %s\n", session.CommandLine(path, extra...))
				}

				store, err := session.Read(cmd.Context(), path, extra...)
				if err != nil {
					return err
				}

				tags := store.Tags()
				if extractableOnly {
					tags = store.Extractable()
				}
				if jsonOutput {
					if tags == nil {
						tags = []exiftool.Tag{}
					}
					return writeJSON(cmd, tags)
				}
				if extractableOnly {
					return printExtractable(out, path, tags)
				}
				return printTagTable(out, store)
			})
		},
	}

	cmd.Flags().BoolVar(&showCommand, "show-command", false, "Print the exiftool command line before reading")
	cmd.Flags().BoolVar(&extractableOnly, "extractable", false, "List only tags holding binary data that can be extracted")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output tags as JSON")
	return cmd
}

// printTagTable prints one row per tag. The group label is shown only on the
// first row of each contiguous run.
func printTagTable(out io.Writer, store *exiftool.Store) error {
	if store.IsEmpty() {
		fmt.Fprintln(out, "No metadata found")
		return nil
	}
	rows := make([][]string, 0, store.Len())
	for _, group := range store.Groups() {
		for i, tag := range group.Tags {
			label := ""
			if i == 0 {
				label = group.Name
			}
			rows = append(rows, []string{label, tag.ID, tag.Name, tag.DisplayValue()})
		}
	}
	cols := columns("Group", "ID", "Tag", "Value")
	cols[3].maxWidth = valueColumnWidth
	_, err := fmt.Fprint(out, renderTable(cols, rows))
	return err
}

func printExtractable(out io.Writer, path string, tags []exiftool.Tag) error {
	if len(tags) == 0 {
		fmt.Fprintln(out, "No extractable tags found")
		return nil
	}
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, []string{
			strconv.Itoa(tag.Index),
			tag.Group,
			tag.Name,
			tag.DisplayValue(),
			defaultExtractName(path, tag.Name),
		})
	}
	cols := columns("#", "Group", "Tag", "Value", "Default output")
	cols[0].align = alignRight
	_, err := fmt.Fprint(out, renderTable(cols, rows))
	return err
}
