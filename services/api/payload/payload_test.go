package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRows(t *testing.T) {
	shapes := []Strategy{Array(), Key("points"), Key("data")}

	t.Run("bare array", func(t *testing.T) {
		rows := Rows([]any{map[string]any{"a": 1.0}}, shapes...)
		assert.Len(t, rows, 1)
	})

	t.Run("first non-null key wins", func(t *testing.T) {
		raw := map[string]any{
			"points": nil,
			"data":   []any{1.0, 2.0},
		}
		assert.Equal(t, []any{1.0, 2.0}, Rows(raw, shapes...))
	})

	t.Run("empty array under earlier key shadows later keys", func(t *testing.T) {
		raw := map[string]any{
			"points": []any{},
			"data":   []any{1.0},
		}
		assert.Empty(t, Rows(raw, shapes...))
	})

	t.Run("non-array container yields nothing", func(t *testing.T) {
		raw := map[string]any{"points": "oops", "data": []any{1.0}}
		assert.Nil(t, Rows(raw, shapes...))
	})

	t.Run("falsy container falls through to the next key", func(t *testing.T) {
		for _, v := range []any{false, 0.0, "", 0} {
			raw := map[string]any{"points": v, "data": []any{1.0}}
			assert.Equal(t, []any{1.0}, Rows(raw, shapes...), "points=%#v", v)
		}
	})

	t.Run("truthy scalar container still matches", func(t *testing.T) {
		raw := map[string]any{"points": true, "data": []any{1.0}}
		assert.Nil(t, Rows(raw, shapes...))
	})

	t.Run("unrecognised shapes", func(t *testing.T) {
		assert.Nil(t, Rows(map[string]any{"other": []any{1.0}}, shapes...))
		assert.Nil(t, Rows("text", shapes...))
		assert.Nil(t, Rows(nil, shapes...))
	})
}
