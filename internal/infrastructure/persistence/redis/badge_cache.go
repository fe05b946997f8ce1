package redis

import (
	"context"
	"errors"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// TTLUnreadBadge bounds staleness if an invalidation is ever lost.
const TTLUnreadBadge = 5 * time.Minute

// PrefixUnread is the key prefix for unread badge entries.
const PrefixUnread = "notify:unread:"

// ══════════════════════════════════════════════════════════════════════════════
// UNREAD BADGE CACHE
// ══════════════════════════════════════════════════════════════════════════════

// badgeCache is the slice of Cache the decorator uses.
type badgeCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedNotificationRepository decorates a feed.NotificationRepository with a
// Redis cache of the unread preview. Writes go straight through and
// invalidate; reads try Redis first and fall back to the store on any cache
// error, so a Redis outage degrades to extra database load and nothing else.
//
// Only the default badge read (limit == feed.UnreadPreview) is cached; any
// other limit bypasses Redis entirely, so a cached preview can never truncate
// a larger listing.
type CachedNotificationRepository struct {
	inner feed.NotificationRepository
	cache badgeCache
	log   *logger.Logger
}

// NewCachedNotificationRepository creates the caching decorator.
func NewCachedNotificationRepository(inner feed.NotificationRepository, cache *Cache, log *logger.Logger) *CachedNotificationRepository {
	return &CachedNotificationRepository{
		inner: inner,
		cache: cache,
		log:   log.With(logger.Component("badge_cache")),
	}
}

// Append stores the notification and drops the addressee's cached badge.
func (r *CachedNotificationRepository) Append(ctx context.Context, n *feed.Notification) error {
	if err := r.inner.Append(ctx, n); err != nil {
		return err
	}

	r.invalidate(ctx, n.UserID)
	return nil
}

// Unread serves the badge from Redis when possible. Non-default limits go
// straight to the store: the cache holds exactly one preview-sized slice per
// user, which would silently truncate any larger read.
func (r *CachedNotificationRepository) Unread(ctx context.Context, userID string, limit int) ([]*feed.Notification, error) {
	if limit != feed.UnreadPreview {
		return r.inner.Unread(ctx, userID, limit)
	}

	key := badgeKey(userID)

	var cached []*feed.Notification
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.log.Warn("unread badge cache read failed", logger.Err(err), logger.UserID(userID))
	}

	notifications, err := r.inner.Unread(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if setErr := r.cache.Set(ctx, key, notifications, TTLUnreadBadge); setErr != nil {
		r.log.Warn("unread badge cache write failed", logger.Err(setErr), logger.UserID(userID))
	}

	return notifications, nil
}

// MarkAllRead flips the rows and drops the cached badge.
func (r *CachedNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := r.inner.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}

	r.invalidate(ctx, userID)
	return count, nil
}

func (r *CachedNotificationRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Delete(ctx, badgeKey(userID)); err != nil {
		r.log.Warn("unread badge invalidation failed", logger.Err(err), logger.UserID(userID))
	}
}

func badgeKey(userID string) string {
	return PrefixUnread + userID
}
