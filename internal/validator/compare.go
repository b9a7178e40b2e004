package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// orderByPattern detects an explicit ordering clause as whole words, so an
// identifier like "reorder_by_date" does not count.
var orderByPattern = regexp.MustCompile(`(?i)\border\s+by\b`)

// hasOrderingClause reports whether the query text contains ORDER BY.
// When it does, row order is part of the answer and must match exactly.
func hasOrderingClause(query string) bool {
	return orderByPattern.MatchString(query)
}

// canonicalValue maps a scalar to a comparison key implementing the
// type-aware equality rules: numeric values compare numerically across
// integer and float representations, text compares as text ([]byte
// included), and NULL matches only NULL.
func canonicalValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		if x {
			return "num:1"
		}
		return "num:0"
	case int:
		return "num:" + strconv.FormatInt(int64(x), 10)
	case int32:
		return "num:" + strconv.FormatInt(int64(x), 10)
	case int64:
		return "num:" + strconv.FormatInt(x, 10)
	case uint64:
		return "num:" + strconv.FormatUint(x, 10)
	case float32:
		return canonicalFloat(float64(x))
	case float64:
		return canonicalFloat(x)
	case string:
		return "txt:" + x
	case []byte:
		return "txt:" + string(x)
	case time.Time:
		return "time:" + x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("other:%v", x)
	}
}

// canonicalFloat folds integral floats onto the integer key so that
// 95000.0 equals 95000.
func canonicalFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return "num:" + strconv.FormatInt(int64(f), 10)
	}
	return "num:" + strconv.FormatFloat(f, 'g', -1, 64)
}

// canonicalRow builds the comparison key for a whole row.
func canonicalRow(row []interface{}) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = canonicalValue(v)
	}
	return strings.Join(parts, "\x1f")
}

// rowsEqualOrdered compares two row sequences position for position.
// Returns the index of the first differing row, or -1 when equal.
func rowsEqualOrdered(a, b [][]interface{}) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if canonicalRow(a[i]) != canonicalRow(b[i]) {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// rowsEqualMultiset compares two row collections ignoring order but
// respecting multiplicity. On mismatch it returns a sample differing row
// (an expected row that is missing, or an actual row that is extra).
func rowsEqualMultiset(expected, actual [][]interface{}) (bool, []interface{}) {
	counts := make(map[string]int, len(expected))
	for _, row := range expected {
		counts[canonicalRow(row)]++
	}

	for _, row := range actual {
		key := canonicalRow(row)
		if counts[key] == 0 {
			return false, row
		}
		counts[key]--
	}

	for _, row := range expected {
		if counts[canonicalRow(row)] > 0 {
			return false, row
		}
	}

	return true, nil
}

// formatRow renders a row for diagnostic messages.
func formatRow(row []interface{}) string {
	parts := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case nil:
			parts[i] = "NULL"
		case []byte:
			parts[i] = string(x)
		default:
			parts[i] = fmt.Sprintf("%v", x)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
