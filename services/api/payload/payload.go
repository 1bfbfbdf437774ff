// Package payload locates the row array inside loosely shaped upstream JSON.
//
// Upstream resources return either a bare array or an object that wraps the
// array under one of a few container keys. Callers describe the shapes they
// accept as an ordered list of strategies; the first strategy that recognises
// the payload decides the result.
package payload

import (
	"encoding/json"
	"math"
)

// Strategy attempts one payload shape. matched reports whether the shape was
// recognised; rows may be nil for a recognised shape that holds no array.
type Strategy func(raw any) (rows []any, matched bool)

// Array accepts a payload that is itself a JSON array.
func Array() Strategy {
	return func(raw any) ([]any, bool) {
		rows, ok := raw.([]any)
		return rows, ok
	}
}

// Key accepts an object carrying a present value under name. Null, false, 0
// and "" count as absent, so the next strategy is tried. Any other value that
// is not an array still counts as a match and yields no rows.
func Key(name string) Strategy {
	return func(raw any) ([]any, bool) {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, false
		}
		v := obj[name]
		if !present(v) {
			return nil, false
		}
		rows, _ := v.([]any)
		return rows, true
	}
}

func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	}
	return true
}

// Rows runs the strategies in order and returns the rows of the first match,
// or nil when none matches.
func Rows(raw any, strategies ...Strategy) []any {
	for _, s := range strategies {
		if rows, ok := s(raw); ok {
			return rows
		}
	}
	return nil
}
