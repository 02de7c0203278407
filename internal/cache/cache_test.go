package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testNote struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Version int64  `json:"version"`
}

func newTestCache(t *testing.T) (*NoteCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := New(&Config{
		Enabled: true,
		Addr:    mr.Addr(),
		TTL:     "5m",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c, mr
}

func TestCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := &testNote{ID: 1, Title: "hello", Version: 3}
	c.Set(ctx, NoteKey(1), in)

	var out testNote
	ok := c.Get(ctx, NoteKey(1), &out)
	require.True(t, ok)
	assert.Equal(t, *in, out)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var out testNote
	ok := c.Get(context.Background(), NoteKey(404), &out)
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, NoteKey(1), &testNote{ID: 1})
	c.Set(ctx, UserNotesKey(7), []*testNote{{ID: 1}})

	c.Invalidate(ctx, NoteKey(1), UserNotesKey(7))

	var out testNote
	assert.False(t, c.Get(ctx, NoteKey(1), &out))
	var list []*testNote
	assert.False(t, c.Get(ctx, UserNotesKey(7), &list))
}

// Redis 故障时读写退化为未命中，不产生 panic 或错误传播
func TestCacheDegradesWhenRedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	mr.Close()

	c.Set(ctx, NoteKey(1), &testNote{ID: 1})

	var out testNote
	assert.False(t, c.Get(ctx, NoteKey(1), &out))
	c.Invalidate(ctx, NoteKey(1))
}

func TestCacheTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, NoteKey(1), &testNote{ID: 1})
	mr.FastForward(c.ttl * 2)

	var out testNote
	assert.False(t, c.Get(ctx, NoteKey(1), &out))
}
