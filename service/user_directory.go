package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// UserDirectory resolves user ids to display names through an expirable LRU
type UserDirectory struct {
	users UserRepository
	cache *expirable.LRU[uuid.UUID, string]
}

// NewUserDirectory creates a directory caching up to size names for ttl
func NewUserDirectory(users UserRepository, size int, ttl time.Duration) *UserDirectory {
	if size <= 0 {
		size = 1024
	}
	return &UserDirectory{
		users: users,
		cache: expirable.NewLRU[uuid.UUID, string](size, nil, ttl),
	}
}

// DisplayName returns the name of the user, or ok=false when unknown
func (d *UserDirectory) DisplayName(ctx context.Context, id uuid.UUID) (string, bool) {
	if name, ok := d.cache.Get(id); ok {
		directoryHitsTotal.Inc()
		return name, true
	}
	directoryMissesTotal.Inc()

	u, err := d.users.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	name := u.DisplayName()
	d.cache.Add(id, name)
	return name, true
}

// Invalidate drops a cached name after a profile change
func (d *UserDirectory) Invalidate(id uuid.UUID) {
	d.cache.Remove(id)
}
