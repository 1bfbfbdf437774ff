package explorer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := NewCache[string](time.Second, clockwork.NewFakeClock())
	c.Set("key1", "value1")

	val, ok := c.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "value1", val)

	_, ok = c.Get("other")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewCache[string](50*time.Millisecond, clock)
	c.Set("key1", "value1")

	clock.Advance(49 * time.Millisecond)
	_, ok := c.Get("key1")
	assert.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok = c.Get("key1")
	assert.False(t, ok, "expected cache miss after TTL")
}

func TestCache_ZeroTTLDisables(t *testing.T) {
	c := NewCache[int](0, clockwork.NewFakeClock())
	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
}
