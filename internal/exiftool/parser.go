package exiftool

import "strings"

// Parse converts exiftool's tab-separated output (-G -t -H) into tags.
//
// Records end with CR, CRLF or LF; the remainder after the last terminator is
// a record of its own. Each record must carry group, tag id and name fields
// followed by the value; records that do not are skipped. Blank lines are
// ignored. The value of the "File Name" tag is replaced with originalName.
//
// A ParseError is returned only when no record parsed and at least one
// malformed record was seen; empty output yields no tags and no error.
func Parse(output, originalName string) ([]Tag, error) {
	var (
		tags      []Tag
		malformed int
	)

	rest := output
	for len(rest) > 0 {
		line := rest
		rest = ""
		if end := strings.IndexAny(line, "\r\n"); end >= 0 {
			next := end + 1
			if line[end] == '\r' && next < len(line) && line[next] == '\n' {
				next++
			}
			rest = line[next:]
			line = line[:end]
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		tag, ok := parseLine(line)
		if !ok {
			malformed++
			continue
		}
		if tag.Name == FileNameTag {
			tag.Value = originalName
		}
		tag.Index = len(tags) + 1
		tags = append(tags, tag)
	}

	if len(tags) == 0 && malformed > 0 {
		return nil, &ParseError{Malformed: malformed}
	}
	return tags, nil
}

func parseLine(line string) (Tag, bool) {
	group, rest, ok := cutField(line)
	if !ok {
		return Tag{}, false
	}
	id, rest, ok := cutField(rest)
	if !ok {
		return Tag{}, false
	}
	name, value, ok := cutField(rest)
	if !ok {
		return Tag{}, false
	}
	return Tag{Group: group, ID: id, Name: name, Value: value}, true
}

// cutField splits off a non-empty field terminated by a tab.
func cutField(s string) (string, string, bool) {
	idx := strings.IndexByte(s, '\t')
	if idx <= 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}
