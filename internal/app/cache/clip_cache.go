package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sifan077/ClipStash/internal/app/model"
	"github.com/sifan077/ClipStash/internal/app/repository"
	"github.com/sifan077/ClipStash/internal/infra/metrics"
	"go.uber.org/zap"
)

const (
	keyPrefix        = "clip:"
	notFoundSentinel = "__nil__"

	clipTTL     = time.Hour
	negativeTTL = 30 * time.Second
)

// CachedClipRepository decorates a ClipRepository with a Redis read-through
// cache and a short-code membership filter. A filter miss means the code was
// never created, so the database is not consulted at all.
type CachedClipRepository struct {
	inner  repository.ClipRepository
	client *redis.Client
	filter *ShortCodeFilter
	logger *zap.Logger
}

// NewCachedClipRepository wraps inner with the cache layers. Both client and
// filter may be nil, in which case that layer is skipped.
func NewCachedClipRepository(inner repository.ClipRepository, client *redis.Client, filter *ShortCodeFilter, logger *zap.Logger) *CachedClipRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClipRepository{inner: inner, client: client, filter: filter, logger: logger}
}

// Warm seeds the membership filter with every stored short code.
func (c *CachedClipRepository) Warm(ctx context.Context) error {
	if c.filter == nil {
		return nil
	}
	codes, err := c.inner.ShortCodes(ctx)
	if err != nil {
		return err
	}
	for _, code := range codes {
		c.filter.Add(code)
	}
	return nil
}

func (c *CachedClipRepository) Create(ctx context.Context, clip *model.Clip) error {
	if err := c.inner.Create(ctx, clip); err != nil {
		return err
	}
	if c.filter != nil {
		c.filter.Add(clip.ShortCode)
	}
	c.store(ctx, clip)
	return nil
}

func (c *CachedClipRepository) GetByShortCode(ctx context.Context, shortCode string) (*model.Clip, error) {
	if c.filter != nil && !c.filter.MightExist(shortCode) {
		metrics.CacheOperations.WithLabelValues("filter", "reject").Inc()
		return nil, repository.ErrClipNotFound
	}

	if clip, err := c.lookup(ctx, shortCode); err == nil && clip != nil {
		return clip, nil
	} else if err != nil && errors.Is(err, repository.ErrClipNotFound) {
		return nil, err
	}

	clip, err := c.inner.GetByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrClipNotFound) {
			c.storeNotFound(ctx, shortCode)
		}
		return nil, err
	}

	c.store(ctx, clip)
	return clip, nil
}

func (c *CachedClipRepository) Update(ctx context.Context, clip *model.Clip) error {
	if err := c.inner.Update(ctx, clip); err != nil {
		return err
	}
	c.store(ctx, clip)
	return nil
}

func (c *CachedClipRepository) IncrementHits(ctx context.Context, shortCode string, delta int64) error {
	if err := c.inner.IncrementHits(ctx, shortCode, delta); err != nil {
		return err
	}
	// Cached rows would keep reporting the stale count for up to an hour.
	c.invalidate(ctx, shortCode)
	return nil
}

func (c *CachedClipRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	// Cached rows for swept clips age out on their own TTL; retrieval also
	// re-checks expiry, so a brief stale window is harmless.
	return c.inner.DeleteExpired(ctx, now)
}

func (c *CachedClipRepository) ShortCodes(ctx context.Context) ([]string, error) {
	return c.inner.ShortCodes(ctx)
}

// lookup returns (clip, nil) on a hit, (nil, ErrClipNotFound) on a negative
// hit, and (nil, nil) on a miss or cache failure.
func (c *CachedClipRepository) lookup(ctx context.Context, shortCode string) (*model.Clip, error) {
	if c.client == nil {
		return nil, nil
	}

	res, err := c.client.Get(ctx, keyPrefix+shortCode).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("redis", "miss").Inc()
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("clip cache read failed", zap.String("short_code", shortCode), zap.Error(err))
		return nil, nil
	}

	clip, err := decodeCachedClip(res)
	if errors.Is(err, repository.ErrClipNotFound) {
		metrics.CacheOperations.WithLabelValues("redis", "hit_negative").Inc()
		return nil, err
	}
	if err != nil {
		c.logger.Warn("clip cache entry corrupt", zap.String("short_code", shortCode), zap.Error(err))
		c.invalidate(ctx, shortCode)
		return nil, nil
	}

	metrics.CacheOperations.WithLabelValues("redis", "hit").Inc()
	return clip, nil
}

// cacheEntry is the cached row shape. The model's own JSON form omits the
// password, which must survive the cache round-trip for the match check.
type cacheEntry struct {
	ID        string     `json:"id"`
	Title     *string    `json:"title"`
	Content   string     `json:"content"`
	ShortCode string     `json:"short_code"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	Password  *string    `json:"password"`
	Hits      int64      `json:"hits"`
}

func newCacheEntry(clip *model.Clip) cacheEntry {
	return cacheEntry{
		ID:        clip.ID,
		Title:     clip.Title,
		Content:   clip.Content,
		ShortCode: clip.ShortCode,
		CreatedAt: clip.CreatedAt,
		ExpiresAt: clip.ExpiresAt,
		Password:  clip.Password,
		Hits:      clip.Hits,
	}
}

// encodeCachedClip renders a clip as the cached payload. The model's own
// JSON marshaling must not be used here: it would strip the password.
func encodeCachedClip(clip *model.Clip) ([]byte, error) {
	return json.Marshal(newCacheEntry(clip))
}

// decodeCachedClip parses a raw cached payload. The negative sentinel maps
// to ErrClipNotFound; anything else unmarshals as a cacheEntry.
func decodeCachedClip(raw string) (*model.Clip, error) {
	if raw == notFoundSentinel {
		return nil, repository.ErrClipNotFound
	}
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	return entry.toModel(), nil
}

func (e cacheEntry) toModel() *model.Clip {
	return &model.Clip{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		ShortCode: e.ShortCode,
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
		Password:  e.Password,
		Hits:      e.Hits,
	}
}

func (c *CachedClipRepository) store(ctx context.Context, clip *model.Clip) {
	if c.client == nil {
		return
	}
	data, err := encodeCachedClip(clip)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+clip.ShortCode, data, clipTTL).Err(); err != nil {
		c.logger.Warn("clip cache write failed", zap.String("short_code", clip.ShortCode), zap.Error(err))
	}
}

func (c *CachedClipRepository) storeNotFound(ctx context.Context, shortCode string) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+shortCode, notFoundSentinel, negativeTTL).Err(); err != nil {
		c.logger.Warn("clip cache negative write failed", zap.String("short_code", shortCode), zap.Error(err))
	}
}

func (c *CachedClipRepository) invalidate(ctx context.Context, shortCode string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keyPrefix+shortCode).Err(); err != nil {
		c.logger.Warn("clip cache invalidate failed", zap.String("short_code", shortCode), zap.Error(err))
	}
}
