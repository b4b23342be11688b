package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// StripSpaces removes every space character, turning a tag name such as
// "Thumbnail Image" into exiftool's flag spelling "ThumbnailImage".
func StripSpaces(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), " ", "")
}

// SplitArgs splits a configured argument string on whitespace. Double quotes
// group words into a single argument and are removed; a backslash escapes a
// following double quote.
func SplitArgs(value string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inQuote bool
		pending bool
	)
	runes := []rune(value)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			pending = true
			i++
		case r == '"':
			inQuote = !inQuote
			pending = true
		case unicode.IsSpace(r) && !inQuote:
			if pending {
				args = append(args, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in %q", value)
	}
	if pending {
		args = append(args, current.String())
	}
	return args, nil
}
