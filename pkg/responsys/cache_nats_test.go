package responsys

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	key   string
	value []byte
}

func (e *fakeEntry) Bucket() string              { return "test" }
func (e *fakeEntry) Key() string                 { return e.key }
func (e *fakeEntry) Value() []byte               { return e.value }
func (e *fakeEntry) Revision() uint64            { return 1 }
func (e *fakeEntry) Created() time.Time          { return time.Time{} }
func (e *fakeEntry) Delta() uint64               { return 0 }
func (e *fakeEntry) Operation() nats.KeyValueOp { return nats.KeyValuePut }

type fakeKeyValue struct {
	data map[string][]byte
}

func newFakeKeyValue() *fakeKeyValue {
	return &fakeKeyValue{data: map[string][]byte{}}
}

func (f *fakeKeyValue) Get(key string) (nats.KeyValueEntry, error) {
	value, ok := f.data[key]
	if !ok {
		return nil, nats.ErrKeyNotFound
	}

	return &fakeEntry{key: key, value: value}, nil
}

func (f *fakeKeyValue) Put(key string, value []byte) (uint64, error) {
	f.data[key] = value

	return uint64(len(f.data)), nil
}

func (f *fakeKeyValue) Delete(key string, _ ...nats.DeleteOpt) error {
	if _, ok := f.data[key]; !ok {
		return nats.ErrKeyNotFound
	}

	delete(f.data, key)

	return nil
}

func (f *fakeKeyValue) Keys(_ ...nats.WatchOpt) ([]string, error) {
	if len(f.data) == 0 {
		return nil, nats.ErrNoKeysFound
	}

	keys := make([]string, 0, len(f.data))
	for key := range f.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func TestNATSKVCache_RoundTrip(t *testing.T) {
	t.Parallel()

	store := newFakeKeyValue()
	cache := newNATSKVCacheWithStore(store)
	ctx := context.Background()

	entry := &CacheEntry{Data: []byte(`[{"name":"L"}]`), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, cache.Set(ctx, "GET:/rest/api/v1.1/lists", entry))

	got, err := cache.Get(ctx, "GET:/rest/api/v1.1/lists")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)
	assert.True(t, cache.Has(ctx, "GET:/rest/api/v1.1/lists"))

	for key := range store.data {
		assert.Regexp(t, `^[0-9a-f]{64}$`, key)
	}
}

func TestNATSKVCache_MissAndExpiry(t *testing.T) {
	t.Parallel()

	store := newFakeKeyValue()
	cache := newNATSKVCacheWithStore(store)
	ctx := context.Background()

	_, err := cache.Get(ctx, "absent")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "old", &CacheEntry{Data: []byte("x"), ExpiresAt: time.Now().Add(-time.Minute)}))

	_, err = cache.Get(ctx, "old")
	require.ErrorIs(t, err, ErrCacheMiss)
	assert.Empty(t, store.data)
}

func TestNATSKVCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	store := newFakeKeyValue()
	cache := newNATSKVCacheWithStore(store)
	ctx := context.Background()

	require.NoError(t, cache.Clear(ctx))
	require.NoError(t, cache.Delete(ctx, "absent"))

	entry := &CacheEntry{Data: []byte("x"), ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, cache.Set(ctx, "a", entry))
	require.NoError(t, cache.Set(ctx, "b", entry))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))

	require.NoError(t, cache.Clear(ctx))
	assert.Empty(t, store.data)
}
