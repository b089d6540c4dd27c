package achievements

import (
	"log/slog"
	"strconv"
)

// Comparison operators accepted in condition data.
const (
	OpGTE = "gte"
	OpGT  = "gt"
	OpLTE = "lte"
	OpLT  = "lt"
	OpEQ  = "eq"
	OpNE  = "ne"
)

// Compare evaluates current against threshold under op. An unknown operator
// is a configuration defect: it logs a warning and evaluates to false rather
// than failing the caller.
func Compare(current, threshold float64, op string) bool {
	switch op {
	case OpGTE:
		return current >= threshold
	case OpGT:
		return current > threshold
	case OpLTE:
		return current <= threshold
	case OpLT:
		return current < threshold
	case OpEQ:
		return current == threshold
	case OpNE:
		return current != threshold
	default:
		slog.Warn("Unknown comparison operator",
			slog.String("type", "error"),
			slog.String("comparison", op),
		)
		return false
	}
}

// toFloat coerces the loosely typed values jsonb decoding produces into a
// float64. Missing or non-numeric values coerce to 0 so comparisons fail
// closed instead of panicking.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
