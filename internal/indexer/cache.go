package indexer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/metrics"
	"github.com/dshills/drivesearch-mcp/internal/storage"
)

// DefaultMaxAge is how long a snapshot stays fresh when not configured
const DefaultMaxAge = 24 * time.Hour

// Builder rebuilds the snapshot for a root and returns the visited IDs
type Builder interface {
	Build(ctx context.Context, rootID string) []string
}

// Cache owns the persisted folder snapshot: freshness, cached reads,
// rebuild delegation and invalidation.
type Cache struct {
	store   storage.FolderStore
	builder Builder
	maxAge  time.Duration
	logger  *zap.Logger
	now     func() time.Time

	// builds coalesces concurrent rebuilds of the same root in this process
	builds singleflight.Group
}

// CacheConfig contains configuration for the folder cache
type CacheConfig struct {
	MaxAge time.Duration // Freshness threshold (default: 24h)
	Logger *zap.Logger
	Now    func() time.Time // Clock override for tests
}

// NewCache creates a folder cache over store that rebuilds with builder
func NewCache(store storage.FolderStore, builder Builder, cfg CacheConfig) *Cache {
	c := &Cache{
		store:   store,
		builder: builder,
		maxAge:  cfg.MaxAge,
		logger:  logging.OrDefault(cfg.Logger),
		now:     cfg.Now,
	}
	if c.maxAge <= 0 {
		c.maxAge = DefaultMaxAge
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// MaxAge returns the configured freshness threshold
func (c *Cache) MaxAge() time.Duration {
	return c.maxAge
}

// IsFresh reports whether an active record for rootID was written less than
// MaxAge ago. Lookup failures report false so the caller rebuilds.
func (c *Cache) IsFresh(ctx context.Context, rootID string) bool {
	record, err := c.store.GetFolder(ctx, rootID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Error("error checking cache freshness",
				zap.String("root_id", rootID),
				zap.Error(err))
		}
		return false
	}
	if !record.Active {
		return false
	}
	return c.now().Sub(record.LastUpdated) < c.maxAge
}

// GetCachedIDs returns the IDs of every active record, with rootID first
// when it is not among them. Read failures yield an empty slice.
func (c *Cache) GetCachedIDs(ctx context.Context, rootID string) []string {
	ids, err := c.store.ListActiveFolderIDs(ctx)
	if err != nil {
		c.logger.Error("error retrieving cached folder IDs", zap.Error(err))
		return []string{}
	}

	found := false
	for _, id := range ids {
		if id == rootID {
			found = true
			break
		}
	}
	if !found {
		ids = append([]string{rootID}, ids...)
	}

	c.logger.Debug("retrieved folders from cache", zap.Int("count", len(ids)))
	return ids
}

// GetAllIDs returns the folder universe for rootID, served from the snapshot
// when it is fresh and non-empty and rebuilt otherwise.
func (c *Cache) GetAllIDs(ctx context.Context, rootID string, forceRefresh bool) []string {
	if !forceRefresh && c.IsFresh(ctx, rootID) {
		c.logger.Info("using cached folder structure", zap.String("root_id", rootID))
		if ids := c.GetCachedIDs(ctx, rootID); len(ids) > 0 {
			metrics.RecordFolderLookup("cached")
			return ids
		}
	}

	c.logger.Info("rebuilding folder cache",
		zap.String("root_id", rootID),
		zap.Bool("forced", forceRefresh))
	metrics.RecordFolderLookup("rebuilt")
	return c.Rebuild(ctx, rootID)
}

// Rebuild unconditionally rebuilds the snapshot for rootID. Callers that
// arrive while a rebuild of the same root is running share its result.
// The build ignores cancellation of the caller that started it so joined
// callers never receive a snapshot truncated by someone else's deadline.
func (c *Cache) Rebuild(ctx context.Context, rootID string) []string {
	buildCtx := context.WithoutCancel(ctx)
	v, _, shared := c.builds.Do(rootID, func() (interface{}, error) {
		return c.builder.Build(buildCtx, rootID), nil
	})
	if shared {
		c.logger.Debug("joined in-flight rebuild", zap.String("root_id", rootID))
	}
	ids := v.([]string)
	return append([]string(nil), ids...)
}

// Invalidate tombstones the record for rootID
func (c *Cache) Invalidate(ctx context.Context, rootID string) error {
	n, err := c.store.DeactivateFolder(ctx, rootID)
	if err != nil {
		c.logger.Error("error invalidating cache", zap.String("root_id", rootID), zap.Error(err))
		return err
	}
	c.logger.Info("invalidated cache for folder",
		zap.String("root_id", rootID),
		zap.Int64("rows", n))
	return nil
}

// InvalidateAll tombstones every record in the snapshot
func (c *Cache) InvalidateAll(ctx context.Context) error {
	n, err := c.store.DeactivateAllFolders(ctx)
	if err != nil {
		c.logger.Error("error invalidating cache", zap.Error(err))
		return err
	}
	c.logger.Info("invalidated all folder caches", zap.Int64("rows", n))
	return nil
}
