package redis

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/pkg/logger"
)

type memoryCache struct {
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.sets++
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type stubNotificationRepo struct {
	notifications []*feed.Notification
	unreadCalls   int
}

func (s *stubNotificationRepo) Append(_ context.Context, n *feed.Notification) error {
	s.notifications = append([]*feed.Notification{n}, s.notifications...)
	return nil
}

func (s *stubNotificationRepo) Unread(_ context.Context, _ string, limit int) ([]*feed.Notification, error) {
	s.unreadCalls++
	if len(s.notifications) > limit {
		return s.notifications[:limit], nil
	}
	return s.notifications, nil
}

func (s *stubNotificationRepo) MarkAllRead(_ context.Context, _ string) (int64, error) {
	n := int64(len(s.notifications))
	s.notifications = nil
	return n, nil
}

func seedNotifications(count int) []*feed.Notification {
	out := make([]*feed.Notification, 0, count)
	for i := count; i > 0; i-- {
		out = append(out, &feed.Notification{
			ID:     "n" + strconv.Itoa(i),
			UserID: "u1",
			Title:  "Notification " + strconv.Itoa(i),
		})
	}
	return out
}

func newBadgeFixture(count int) (*stubNotificationRepo, *memoryCache, *CachedNotificationRepository) {
	inner := &stubNotificationRepo{notifications: seedNotifications(count)}
	cache := newMemoryCache()
	repo := &CachedNotificationRepository{
		inner: inner,
		cache: cache,
		log:   logger.New(logger.Options{Output: io.Discard}),
	}
	return inner, cache, repo
}

func TestUnread_PreviewIsCached(t *testing.T) {
	inner, cache, repo := newBadgeFixture(10)
	ctx := context.Background()

	first, err := repo.Unread(ctx, "u1", feed.UnreadPreview)
	require.NoError(t, err)
	require.Len(t, first, feed.UnreadPreview)
	assert.Equal(t, 1, inner.unreadCalls)
	assert.Equal(t, 1, cache.sets)

	second, err := repo.Unread(ctx, "u1", feed.UnreadPreview)
	require.NoError(t, err)
	require.Len(t, second, feed.UnreadPreview)
	assert.Equal(t, 1, inner.unreadCalls, "second preview read should come from cache")
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestUnread_LargerLimitBypassesCachedPreview(t *testing.T) {
	inner, _, repo := newBadgeFixture(10)
	ctx := context.Background()

	// Warm the cache with the 3-item badge preview.
	preview, err := repo.Unread(ctx, "u1", feed.UnreadPreview)
	require.NoError(t, err)
	require.Len(t, preview, feed.UnreadPreview)

	// A full listing must not be served from the preview-sized entry.
	full, err := repo.Unread(ctx, "u1", feed.StreamWindow)
	require.NoError(t, err)
	assert.Len(t, full, 10)
	assert.Equal(t, 2, inner.unreadCalls)
}

func TestUnread_NonDefaultLimitIsNotCached(t *testing.T) {
	_, cache, repo := newBadgeFixture(10)
	ctx := context.Background()

	_, err := repo.Unread(ctx, "u1", 30)
	require.NoError(t, err)

	assert.Zero(t, cache.sets)
	assert.Empty(t, cache.data)
}

func TestUnread_AppendInvalidates(t *testing.T) {
	inner, _, repo := newBadgeFixture(3)
	ctx := context.Background()

	_, err := repo.Unread(ctx, "u1", feed.UnreadPreview)
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, &feed.Notification{ID: "fresh", UserID: "u1", Title: "New assignment"}))

	after, err := repo.Unread(ctx, "u1", feed.UnreadPreview)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.unreadCalls, "append should drop the cached badge")
	assert.Equal(t, "fresh", after[0].ID)
}

func TestUnread_MarkAllReadInvalidates(t *testing.T) {
	inner, _, repo := newBadgeFixture(3)
	ctx := context.Background()

	_, err := repo.Unread(ctx, "u1", feed.UnreadPreview)
	require.NoError(t, err)

	count, err := repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	after, err := repo.Unread(ctx, "u1", feed.UnreadPreview)
	require.NoError(t, err)
	assert.Empty(t, after)
	assert.Equal(t, 2, inner.unreadCalls)
}
