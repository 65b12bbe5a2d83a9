package position

import (
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ParseCursor resolves a cursor given either as a byte offset or as a
// one-based `line:col` pair against fileText.
func ParseCursor(s, fileText string) (int, error) {
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		offset, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.Errorf("parsing offset %q: %w", s, err)
		}
		if offset < 0 || offset > len(fileText) {
			return 0, errors.Errorf("offset %d is outside the file", offset)
		}
		return offset, nil
	}

	l, err := strconv.Atoi(line)
	if err != nil {
		return 0, errors.Errorf("parsing line %q: %w", line, err)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return 0, errors.Errorf("parsing column %q: %w", col, err)
	}
	lines := strings.Split(fileText, "\n")
	if l < 1 || l > len(lines) {
		return 0, errors.Errorf("line %d is outside the file", l)
	}
	if c < 1 || c > len(lines[l-1])+1 {
		return 0, errors.Errorf("column %d is outside line %d", c, l)
	}
	return NewRawPositionFromLineAndColumn(l-1, c-1, "", fileText).Offset, nil
}
