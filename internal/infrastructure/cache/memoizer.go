package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/saveplate/backend/internal/logging"
	"github.com/saveplate/backend/internal/metrics"
)

// ErrInvalidOptions is returned when a memoizer is configured with a
// non-positive TTL or size.
var ErrInvalidOptions = errors.New("invalid memoizer options")

// Options configures a Memoizer
type Options struct {
	// TTL is the width of a time bucket. A result is reused for at most TTL,
	// often less: every entry expires at the next bucket boundary.
	TTL time.Duration
	// MaxSize bounds the number of entries; the least recently used goes first.
	MaxSize int
	// Now defaults to time.Now.
	Now func() time.Time
	// Serializer defaults to NewKeySerializer().
	Serializer KeySerializer
}

// Memoizer caches the successful results of fn per argument and time bucket.
//
// Lookups and inserts rely on the LRU's own locking and nothing else, so two
// callers missing on the same key at the same time both run fn.
type Memoizer[A, V any] struct {
	name       string
	fn         func(ctx context.Context, arg A) (V, error)
	ttl        time.Duration
	now        func() time.Time
	serializer KeySerializer
	entries    *lru.Cache[string, V]
}

// NewMemoizer wraps fn. name prefixes every key and labels the metrics.
func NewMemoizer[A, V any](name string, fn func(ctx context.Context, arg A) (V, error), opts Options) (*Memoizer[A, V], error) {
	if opts.TTL <= 0 || opts.MaxSize <= 0 {
		return nil, fmt.Errorf("%w: ttl=%s max_size=%d", ErrInvalidOptions, opts.TTL, opts.MaxSize)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Serializer == nil {
		opts.Serializer = NewKeySerializer()
	}

	entries, err := lru.New[string, V](opts.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &Memoizer[A, V]{
		name:       name,
		fn:         fn,
		ttl:        opts.TTL,
		now:        opts.Now,
		serializer: opts.Serializer,
		entries:    entries,
	}, nil
}

// Get returns the cached result for arg in the current bucket, computing and
// storing it on a miss. Errors from fn are returned and never stored.
func (m *Memoizer[A, V]) Get(ctx context.Context, arg A) (V, error) {
	key := m.key(arg)

	if v, ok := m.entries.Get(key); ok {
		metrics.MemoHits.WithLabelValues(m.name).Inc()
		return v, nil
	}
	metrics.MemoMisses.WithLabelValues(m.name).Inc()

	v, err := m.fn(ctx, arg)
	if err != nil {
		return v, err
	}

	if evicted := m.entries.Add(key, v); evicted {
		logging.Ctx(ctx).Debug().Str("memo", m.name).Msg("memo entry evicted")
	}
	metrics.MemoEntries.WithLabelValues(m.name).Set(float64(m.entries.Len()))
	return v, nil
}

// Func returns Get as a plain function value.
func (m *Memoizer[A, V]) Func() func(ctx context.Context, arg A) (V, error) {
	return m.Get
}

// Len is the number of stored entries, expired buckets included until evicted.
func (m *Memoizer[A, V]) Len() int {
	return m.entries.Len()
}

// Purge drops every entry.
func (m *Memoizer[A, V]) Purge() {
	m.entries.Purge()
	metrics.MemoEntries.WithLabelValues(m.name).Set(0)
}

// Bucket is the index of the time window containing t.
func (m *Memoizer[A, V]) Bucket(t time.Time) int64 {
	return bucketOf(t, m.ttl)
}

func (m *Memoizer[A, V]) key(arg A) string {
	bucket := strconv.FormatInt(bucketOf(m.now(), m.ttl), 10)
	return m.serializer.SerializeKey(m.name, arg) + KeySeparator + bucket
}

// bucketOf floors t to a multiple of ttl counted from the Unix epoch.
func bucketOf(t time.Time, ttl time.Duration) int64 {
	n := t.UnixNano()
	d := int64(ttl)
	b := n / d
	if n%d < 0 {
		b--
	}
	return b
}
