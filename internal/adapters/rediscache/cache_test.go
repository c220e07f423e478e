package rediscache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock.service/internal/core/model"
)

func TestNew_EmptyAddrDisablesCache(t *testing.T) {
	assert.Nil(t, New("", "", 0))
}

func TestNilClient_FailsSafe(t *testing.T) {
	ctx := context.Background()
	var c *Client

	assert.Nil(t, c.Get(ctx, "k"))
	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")
	assert.NoError(t, c.Close())
}

func TestUserCache_MissWithoutRedis(t *testing.T) {
	ctx := context.Background()
	cache := NewUserCache((*Client)(nil), DefaultUsersTTL)

	cache.StoreUsers(ctx, "0", []model.User{{ID: "u1", Name: "Jane Doe"}})
	users, _, ok := cache.Users(ctx)
	assert.False(t, ok)
	assert.Nil(t, users)
	cache.InvalidateUsers(ctx)
}

func TestUnreachableRedis_ReadsAsMiss(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	c := New("127.0.0.1:1", "", 0)
	defer c.Close()
	assert.Nil(t, c.Get(ctx, "k"))
}

type memStore map[string][]byte

func (m memStore) Get(_ context.Context, key string) []byte { return m[key] }

func (m memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	m[key] = value
}

func (m memStore) Delete(_ context.Context, key string) { delete(m, key) }

func (m memStore) Incr(_ context.Context, key string) {
	n, _ := strconv.Atoi(string(m[key]))
	m[key] = []byte(strconv.Itoa(n + 1))
}

func TestUserCache_HitAfterStore(t *testing.T) {
	ctx := context.Background()
	cache := NewUserCache(memStore{}, DefaultUsersTTL)

	_, stamp, ok := cache.Users(ctx)
	require.False(t, ok)
	cache.StoreUsers(ctx, stamp, []model.User{{ID: "u1", Name: "Jane Doe"}})

	users, _, ok := cache.Users(ctx)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", users[0].Name)
}

func TestUserCache_StoreAfterConcurrentWriteIsNeverServed(t *testing.T) {
	ctx := context.Background()
	cache := NewUserCache(memStore{}, DefaultUsersTTL)

	// A reader misses and loads the list from the database...
	_, stamp, ok := cache.Users(ctx)
	require.False(t, ok)
	stale := []model.User{{ID: "u1", Name: "Jane Doe"}}

	// ...a write commits and invalidates before the reader stores its copy.
	cache.InvalidateUsers(ctx)
	cache.StoreUsers(ctx, stamp, stale)

	users, fresh, ok := cache.Users(ctx)
	assert.False(t, ok)
	assert.Nil(t, users)
	assert.NotEqual(t, stamp, fresh)
}
