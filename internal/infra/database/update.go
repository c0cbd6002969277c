package database

import (
	"fmt"
	"sort"
	"strings"
)

// buildSet turns a partial-update field map into a SET clause and its args.
// Keys are already whitelisted by the validation layer; sorting keeps the
// generated SQL deterministic. updated_at is always stamped by the caller's
// map, so it rides along like any other column.
func buildSet(fields map[string]any) (string, []any) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		parts = append(parts, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[col])
	}
	return strings.Join(parts, ", "), args
}
