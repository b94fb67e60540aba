package rihap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
)

// TableFormatError reports a configuration table row with the wrong number
// of fields.
type TableFormatError struct {
	Line   int
	Fields int
	Format string
}

func (e *TableFormatError) Error() string {
	return fmt.Sprintf("line %d has %d fields; expected line format: %s", e.Line, e.Fields, e.Format)
}

// readTable calls fn for every non-blank, non-comment line of r, split on
// whitespace. Every row must have exactly nFields fields.
func readTable(r io.Reader, nFields int, format string, fn func(line int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != nFields {
			return &TableFormatError{Line: line, Fields: len(fields), Format: format}
		}

		if err := fn(line, fields); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	return scanner.Err()
}

func readTableFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return nil
}
