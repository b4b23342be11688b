package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	maxLineSize         = 1024 * 1024
	defaultPollInterval = 250 * time.Millisecond
)

// Chunk is a batch of log lines and the byte offset just past them.
type Chunk struct {
	Lines  []string
	Offset int64
}

// Last returns up to limit lines from the end of path that contain match.
// An empty match keeps every line. A missing file yields an empty chunk.
func Last(path string, limit int, match string) (Chunk, error) {
	file, size, err := open(path)
	if err != nil || file == nil {
		return Chunk{}, err
	}
	defer file.Close()

	if limit <= 0 {
		return Chunk{Offset: size}, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	offset, err := scan(file, match, func(line string) {
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return Chunk{}, err
	}

	lines := make([]string, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines[i] = ring[(start+i)%limit]
	}
	return Chunk{Lines: lines, Offset: offset}, nil
}

// From returns the matching lines written after offset. An offset past the
// end of the file (after truncation or rotation) restarts from the beginning.
func From(path string, offset int64, match string) (Chunk, error) {
	file, size, err := open(path)
	if err != nil || file == nil {
		return Chunk{}, err
	}
	defer file.Close()

	if offset < 0 || offset > size {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Chunk{}, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	read, err := scan(file, match, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{Lines: lines, Offset: offset + read}, nil
}

// Follow polls path from offset and hands every new batch of matching lines
// to emit until ctx is done. It returns nil on cancellation.
func Follow(ctx context.Context, path string, offset int64, match string, poll time.Duration, emit func([]string) error) error {
	if poll <= 0 {
		poll = defaultPollInterval
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		chunk, err := From(path, offset, match)
		if err != nil {
			return err
		}
		offset = chunk.Offset
		if len(chunk.Lines) > 0 {
			if err := emit(chunk.Lines); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func open(path string) (*os.File, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}
	return file, info.Size(), nil
}

// scan feeds complete matching lines to fn and returns the number of bytes
// consumed. A trailing partial line is left for the next read.
func scan(r io.Reader, match string, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		if err != nil {
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		if len(line) > maxLineSize {
			continue
		}
		line = strings.TrimRight(line, "\r\n")
		if match == "" || strings.Contains(line, match) {
			fn(line)
		}
	}
}
