package locator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpilot/internal/model"
)

func sampleElements() []model.Element {
	return []model.Element{
		model.NewAXElement("Save", [4]int{10, 10, 60, 25}, model.AXMeta{RoleName: "push button"}),
		model.NewAXElement("Cancel", [4]int{80, 10, 60, 25}, model.AXMeta{RoleName: "push button"}),
		model.NewOCRElement("Status", [4]int{10, 200, 50, 15}, 80),
	}
}

func TestCacheStoreAndGet(t *testing.T) {
	c := NewCache(time.Minute)
	c.Store(sampleElements(), 1920, 1080)

	require.True(t, c.IsValid())
	assert.Equal(t, 3, c.Count())

	// IDs are 1-based and follow enumeration order.
	el, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Save", el.Name)
	el, ok = c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Status", el.Name)

	_, ok = c.Get(0)
	assert.False(t, ok, "id 0 must never exist")
	_, ok = c.Get(4)
	assert.False(t, ok)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(30 * time.Millisecond)
	c.Store(sampleElements(), 1920, 1080)
	require.True(t, c.IsValid())

	time.Sleep(50 * time.Millisecond)

	assert.False(t, c.IsValid())
	_, ok := c.Get(1)
	assert.False(t, ok, "expired cache must not serve elements")
	assert.Empty(t, c.GetAll(), "expired cache must return an empty map")
}

func TestCacheStoreReplacesGeneration(t *testing.T) {
	c := NewCache(time.Minute)
	c.Store(sampleElements(), 1920, 1080)
	c.Store(sampleElements()[:1], 1920, 1080)

	assert.Equal(t, 1, c.Count())
	_, ok := c.Get(2)
	assert.False(t, ok, "ids from a previous generation must be gone")
}

func TestCacheScreenSizeGuard(t *testing.T) {
	c := NewCache(time.Minute)
	c.Store(sampleElements(), 1920, 1080)

	// Same size: no effect.
	assert.True(t, c.CheckScreenSize(1920, 1080))
	assert.True(t, c.IsValid())

	// Resolution changed: geometry is stale, cache must drop.
	assert.False(t, c.CheckScreenSize(1280, 720))
	assert.False(t, c.IsValid())
	assert.Equal(t, 0, c.Count())

	// The drop is a full reset: no leftover timestamp or recorded size,
	// so the new resolution is not treated as a second mismatch later.
	assert.Zero(t, c.Age())
	assert.False(t, c.CheckScreenSize(1280, 720), "an empty cache is never valid")
	c.Store(sampleElements(), 1280, 720)
	assert.True(t, c.CheckScreenSize(1280, 720))
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(time.Minute)
	c.Store(sampleElements(), 1920, 1080)
	c.Invalidate()
	assert.False(t, c.IsValid())
	assert.Empty(t, c.GetAll())
}

func TestCacheEmptyIsInvalid(t *testing.T) {
	c := NewCache(time.Minute)
	assert.False(t, c.IsValid())
	c.Store(nil, 1920, 1080)
	assert.False(t, c.IsValid(), "a stored empty enumeration holds nothing to serve")
}

func TestCacheDefaultTTL(t *testing.T) {
	c := NewCache(0)
	assert.Equal(t, DefaultCacheTTL, c.ttl)
}
