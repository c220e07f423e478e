package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"timeclock.service/internal/core/model"
)

const (
	usersKeyPrefix = "timeclock:users:"
	usersGenKey    = "timeclock:users:gen"
)

// DefaultUsersTTL bounds staleness if an invalidation is lost.
const DefaultUsersTTL = 5 * time.Minute

// Store is the subset of Client the user cache needs.
type Store interface {
	Get(ctx context.Context, key string) []byte
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Incr(ctx context.Context, key string)
}

// UserCache keeps the full user list, which the kiosk fetches on every
// start-shift screen. Lists are stored under the generation that was current
// when the read began; an invalidation bumps the generation, so a list read
// before a concurrent write lands under a key nobody reads again.
type UserCache struct {
	store Store
	ttl   time.Duration
}

func NewUserCache(store Store, ttl time.Duration) *UserCache {
	return &UserCache{store: store, ttl: ttl}
}

// Users returns the cached list for the current generation and the stamp to
// store a fresh list under on a miss.
func (c *UserCache) Users(ctx context.Context) ([]model.User, string, bool) {
	gen := c.generation(ctx)
	raw := c.store.Get(ctx, usersKeyPrefix+gen)
	if raw == nil {
		return nil, gen, false
	}
	var users []model.User
	if err := json.Unmarshal(raw, &users); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Discarding unreadable cached user list")
		c.store.Delete(ctx, usersKeyPrefix+gen)
		return nil, gen, false
	}
	return users, gen, true
}

// StoreUsers caches users under stamp. A stale stamp writes a key that is
// never read and expires with the TTL.
func (c *UserCache) StoreUsers(ctx context.Context, stamp string, users []model.User) {
	raw, err := json.Marshal(users)
	if err != nil {
		return
	}
	c.store.Set(ctx, usersKeyPrefix+stamp, raw, c.ttl)
}

func (c *UserCache) InvalidateUsers(ctx context.Context) {
	c.store.Incr(ctx, usersGenKey)
}

func (c *UserCache) generation(ctx context.Context) string {
	if raw := c.store.Get(ctx, usersGenKey); raw != nil {
		return string(raw)
	}
	return "0"
}
