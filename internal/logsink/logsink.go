// Package logsink appends a run's delta history to a plain-text log.
package logsink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPath is the log file name used when none is configured.
const DefaultPath = "Count.log"

// Sink appends one line per flushed history to a log file.
type Sink struct {
	path string
}

// New returns a sink writing to path.
func New(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the log file path.
func (s *Sink) Path() string {
	return s.path
}

// Flush appends "d1 d2 ... dN total\n". The file is opened for this call
// only and closed on every return path.
func (s *Sink) Flush(history []int) (err error) {
	if s.path == "" {
		return fmt.Errorf("log path is empty")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close log: %w", cerr)
		}
	}()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(FormatLine(history)); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush log: %w", err)
	}
	return nil
}

// FormatLine encodes a history as its space-separated deltas followed by
// their sum and a newline.
func FormatLine(history []int) string {
	var b strings.Builder
	total := 0
	for _, d := range history {
		b.WriteString(strconv.Itoa(d))
		b.WriteByte(' ')
		total += d
	}
	b.WriteString(strconv.Itoa(total))
	b.WriteByte('\n')
	return b.String()
}

// FormatDeltas encodes only the deltas, space separated.
func FormatDeltas(history []int) string {
	parts := make([]string, len(history))
	for i, d := range history {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, " ")
}

// ParseDeltas decodes the output of FormatDeltas.
func ParseDeltas(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid delta %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
