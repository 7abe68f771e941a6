package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t int64 }

func (f *fakeClock) NowUnix() int64 { return f.t }

func TestAccess_EvictsLeastRecentlyHit(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 1}
	c := New[string](Options[string]{Capacity: 2, Clock: clk})

	require.True(t, c.Set(1, "a"))
	clk.t = 2
	require.True(t, c.Set(2, "b"))

	// A hit on key 1 makes key 2 the oldest by access time.
	clk.t = 3
	_, ok := c.Get(1)
	require.True(t, ok)

	clk.t = 4
	require.True(t, c.Set(3, "c"))

	assert.False(t, c.Exists(2), "least recently accessed entry must go")
	assert.True(t, c.Exists(1))
	assert.True(t, c.Exists(3))
}

// Only a Get hit counts as an access for this layer; finding an existing
// entry through GetOrCreate leaves its access time alone.
func TestAccess_GetOrCreateDoesNotRefresh(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 10}
	c := New[string](Options[string]{Capacity: 4, Clock: clk})

	c.Set(7, "x")

	clk.t = 50
	v, existed := c.GetOrCreate(7)
	require.True(t, existed)
	assert.Equal(t, "x", *v)

	m, ok := c.Metric(7)
	require.True(t, ok)
	assert.Equal(t, uint64(10), m, "access time must be untouched")

	clk.t = 60
	_, ok = c.Get(7)
	require.True(t, ok)
	m, _ = c.Metric(7)
	assert.Equal(t, uint64(60), m, "a hit must refresh the access time")
}

func TestAccess_CreateStampsNow(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: 123}
	c := New[int](Options[int]{Capacity: 2, Clock: clk})

	v := c.Create(9)
	require.NotNil(t, v)
	*v = 42

	m, ok := c.Metric(9)
	require.True(t, ok)
	assert.Equal(t, uint64(123), m)

	birth, ok := c.CreatedAt(9)
	require.True(t, ok)
	assert.Equal(t, uint64(123), birth)
}
