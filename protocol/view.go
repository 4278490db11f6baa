package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedView is returned when a view string cannot be parsed.
var ErrMalformedView = errors.New("malformed view")

// FormatView serializes a matrix as "[a, b; c, d]".
func FormatView(view [][]uint8) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range view {
		if i > 0 {
			sb.WriteString("; ")
		}
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(int(v)))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// ParseView is the inverse of FormatView. The matrix must be rectangular. An
// empty string or "[]" yields a nil matrix.
func ParseView(s string) ([][]uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: missing brackets", ErrMalformedView)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, nil
	}

	rows := strings.Split(body, ";")
	view := make([][]uint8, 0, len(rows))
	for i, r := range rows {
		fields := strings.Split(r, ",")
		row := make([]uint8, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedView, i, err)
			}
			row = append(row, uint8(n))
		}
		if i > 0 && len(row) != len(view[0]) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrMalformedView, i, len(row), len(view[0]))
		}
		view = append(view, row)
	}
	return view, nil
}
