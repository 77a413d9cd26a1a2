package kv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// filePermissions is the file permission mode for written config files.
const filePermissions = 0o644

// ErrSyntax indicates a line that is not a "key = value" assignment.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports a malformed line. Line is 1-based.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v on line %d: %s", ErrSyntax, e.Line, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// SplitLines splits file content into lines the way Parse reads them.
// A trailing newline does not produce an extra empty line.
func SplitLines(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// parseLine splits a line at its first '='. Blank lines report ok with an
// empty key.
func parseLine(line string) (key, value string, ok bool) {
	if strings.TrimSpace(line) == "" {
		return "", "", true
	}
	k, v, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(k)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(v), true
}

// ParseLines builds a set from lines. Blank lines are skipped; every other
// line is split at its first '=' and both sides are trimmed. A repeated key
// updates the earlier occurrence. The first malformed line is returned as a
// *SyntaxError.
func ParseLines(lines []string) (*Set, error) {
	s := &Set{}
	for i, line := range lines {
		key, value, ok := parseLine(line)
		if !ok {
			return nil, &SyntaxError{Line: i + 1, Text: line}
		}
		if key != "" {
			s.Set(key, value)
		}
	}
	return s, nil
}

// ParseLenient is like ParseLines but skips malformed lines.
func ParseLenient(lines []string) *Set {
	s := &Set{}
	for _, line := range lines {
		if key, value, ok := parseLine(line); ok && key != "" {
			s.Set(key, value)
		}
	}
	return s
}

// Parse reads a set from r.
func Parse(r io.Reader) (*Set, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseLines(lines)
}

// ReadLines reads the raw lines of a config file. A missing file has no lines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return SplitLines(data), nil
}

// ReadFile reads and parses a config file. A missing file reads as an
// empty set.
func ReadFile(path string) (*Set, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseLines(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Marshal serializes the set, one "key = value" line per pair.
func (s *Set) Marshal() []byte {
	var buf bytes.Buffer
	for _, p := range s.pairs {
		buf.WriteString(p.Key)
		buf.WriteString(" = ")
		buf.WriteString(p.Value)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// String returns the serialized form of the set.
func (s *Set) String() string {
	return string(s.Marshal())
}

// WriteTo writes the set to the given writer.
func (s *Set) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Marshal())
	return int64(n), err
}

// WriteFile replaces the file at path with the serialized set. The content
// is written to a temporary file in the same directory and renamed into
// place, so readers never observe a partial file.
func (s *Set) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := s.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(filePermissions); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
