package docstore

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// String reads key as a string. Numbers are formatted, anything else is absent.
func (r Record) String(key string) (string, bool) {
	switch v := r[key].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

// Float reads key as a number, accepting numeric strings.
func (r Record) Float(key string) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := r[key].(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int reads key as an integer, truncating fractional values. Values outside
// the range of int are absent.
func (r Record) Int(key string) (int, bool) {
	if v, ok := r[key].(json.Number); ok {
		if n, err := v.Int64(); err == nil {
			if n < math.MinInt || n > math.MaxInt {
				return 0, false
			}
			return int(n), true
		}
	}
	f, ok := r.Float(key)
	if !ok || f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}
