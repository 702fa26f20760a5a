package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// counting returns fn wrapped with an invocation counter.
func counting[A, V any](fn func(ctx context.Context, arg A) (V, error)) (func(ctx context.Context, arg A) (V, error), *atomic.Int32) {
	var calls atomic.Int32
	return func(ctx context.Context, arg A) (V, error) {
		calls.Add(1)
		return fn(ctx, arg)
	}, &calls
}

func TestNewMemoizer_InvalidOptions(t *testing.T) {
	fn := func(ctx context.Context, s string) (string, error) { return s, nil }

	tests := []struct {
		name string
		opts Options
	}{
		{name: "zero ttl", opts: Options{MaxSize: 1}},
		{name: "negative ttl", opts: Options{TTL: -time.Second, MaxSize: 1}},
		{name: "zero size", opts: Options{TTL: time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMemoizer("test", fn, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestMemoizer_ReusesResultWithinBucket(t *testing.T) {
	clock := &fakeClock{t: time.Unix(600, 0)}
	fn, calls := counting(func(ctx context.Context, names []string) (*[]string, error) {
		out := append([]string(nil), names...)
		return &out, nil
	})

	m, err := NewMemoizer("recipes", fn, Options{TTL: 10 * time.Second, MaxSize: 8, Now: clock.Now})
	require.NoError(t, err)

	first, err := m.Get(context.Background(), []string{"onion", "tomato"})
	require.NoError(t, err)
	clock.Advance(9 * time.Second)
	second, err := m.Get(context.Background(), []string{"onion", "tomato"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMemoizer_RecomputesInNextBucket(t *testing.T) {
	// 609s is the last second of bucket 60 for a 10s window.
	clock := &fakeClock{t: time.Unix(609, 0)}
	fn, calls := counting(func(ctx context.Context, n int) (int, error) { return n * 2, nil })

	m, err := NewMemoizer("double", fn, Options{TTL: 10 * time.Second, MaxSize: 8, Now: clock.Now})
	require.NoError(t, err)

	_, err = m.Get(context.Background(), 21)
	require.NoError(t, err)
	clock.Advance(time.Second)
	got, err := m.Get(context.Background(), 21)
	require.NoError(t, err)

	assert.Equal(t, 42, got)
	assert.Equal(t, int32(2), calls.Load(), "entry must not outlive its bucket")
}

func TestMemoizer_EvictsLeastRecentlyUsed(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	seen := map[string]int{}
	fn := func(ctx context.Context, k string) (string, error) {
		seen[k]++
		return k, nil
	}

	m, err := NewMemoizer("lru", fn, Options{TTL: time.Hour, MaxSize: 2, Now: clock.Now})
	require.NoError(t, err)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "a", "c"} {
		_, err := m.Get(ctx, k)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, m.Len())

	// "b" was least recently used when "c" arrived.
	_, _ = m.Get(ctx, "a")
	_, _ = m.Get(ctx, "c")
	_, _ = m.Get(ctx, "b")

	assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 1}, seen)
}

func TestMemoizer_DoesNotCacheErrors(t *testing.T) {
	errStore := errors.New("store unavailable")
	fail := true
	fn, calls := counting(func(ctx context.Context, k string) (string, error) {
		if fail {
			return "", errStore
		}
		return "value", nil
	})

	m, err := NewMemoizer("flaky", fn, Options{TTL: time.Hour, MaxSize: 4})
	require.NoError(t, err)

	_, err = m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, errStore)
	assert.Zero(t, m.Len())

	fail = false
	got, err := m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMemoizer_KeysIncludeName(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	m, err := NewMemoizer("autocomplete", func(ctx context.Context, s string) (string, error) { return s, nil },
		Options{TTL: time.Minute, MaxSize: 1, Now: clock.Now})
	require.NoError(t, err)

	assert.Equal(t, `autocomplete::"to"::0`, m.key("to"))
	clock.Advance(time.Minute)
	assert.Equal(t, `autocomplete::"to"::1`, m.key("to"))
}

func TestMemoizer_Purge(t *testing.T) {
	m, err := NewMemoizer("purge", func(ctx context.Context, n int) (int, error) { return n, nil },
		Options{TTL: time.Minute, MaxSize: 4})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _ = m.Get(context.Background(), i)
	}
	require.Equal(t, 3, m.Len())

	m.Purge()
	assert.Zero(t, m.Len())
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		at   time.Time
		ttl  time.Duration
		want int64
	}{
		{at: time.Unix(0, 0), ttl: time.Minute, want: 0},
		{at: time.Unix(59, 999), ttl: time.Minute, want: 0},
		{at: time.Unix(60, 0), ttl: time.Minute, want: 1},
		{at: time.Unix(1_700_000_123, 0), ttl: 600 * time.Second, want: 2_833_333},
		{at: time.Unix(0, 1_500_000), ttl: time.Millisecond, want: 1},
		{at: time.Unix(-1, 0), ttl: time.Minute, want: -1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%s", tt.at.UnixNano(), tt.ttl), func(t *testing.T) {
			assert.Equal(t, tt.want, bucketOf(tt.at, tt.ttl))
		})
	}
}
