package exiftool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Format selects an export rendering.
type Format int

const (
	FormatText Format = iota
	FormatCSV
	FormatJSON
)

const csvHeader = `"Index","TagGroup","TagId","TagName","TagValue"`

// ParseFormat maps a user-supplied name ("text", "txt", "csv", "json") to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported export format %q (want text, csv or json)", value)
	}
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Extension returns the conventional file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// Render returns the store rendered in the requested format.
func Render(f Format, s *Store) ([]byte, error) {
	switch f {
	case FormatText:
		return []byte(ExportText(s)), nil
	case FormatCSV:
		return []byte(ExportCSV(s)), nil
	case FormatJSON:
		return ExportJSON(s)
	default:
		return nil, fmt.Errorf("render: unsupported format %v", f)
	}
}

// ExportText renders one "[group]" section per contiguous group run with
// tab-separated "id name value" lines. Sections after the first are preceded
// by a blank line.
func ExportText(s *Store) string {
	var b strings.Builder
	for i, group := range s.Groups() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("[" + group.Name + "]\n")
		for _, tag := range group.Tags {
			b.WriteString(tag.ID)
			b.WriteByte('\t')
			b.WriteString(tag.Name)
			b.WriteByte('\t')
			b.WriteString(tag.Value)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ExportCSV renders a header row and one quoted row per tag joined by CRLF.
// Embedded quotes and commas are written as-is, matching files produced by
// earlier releases.
func ExportCSV(s *Store) string {
	rows := make([]string, 0, s.Len())
	for tag := range s.All() {
		rows = append(rows, `"`+strconv.Itoa(tag.Index)+`","`+tag.Group+`","`+tag.ID+`","`+tag.Name+`","`+tag.Value+`"`)
	}
	return csvHeader + "\r\n" + strings.Join(rows, "\r\n")
}

// ExportJSON renders the tags as an indented JSON array. Empty fields are omitted.
func ExportJSON(s *Store) ([]byte, error) {
	tags := s.Tags()
	if tags == nil {
		tags = []Tag{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tags); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseJSON reads tags previously written by ExportJSON.
func ParseJSON(data []byte) ([]Tag, error) {
	var tags []Tag
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return tags, nil
}

// WriteFile renders s and writes it to dest as UTF-8.
func WriteFile(f Format, s *Store, dest string) error {
	if s.IsEmpty() {
		return ErrNothingToExport
	}
	if strings.TrimSpace(dest) == "" {
		return fmt.Errorf("export %s: destination required", f)
	}
	data, err := Render(f, s)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s export: %w", f, err)
	}
	return nil
}

// SuggestedExportName returns "<stem><ext>" for the original file.
func SuggestedExportName(originalPath string, f Format) string {
	return fileStem(originalPath) + f.Extension()
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
