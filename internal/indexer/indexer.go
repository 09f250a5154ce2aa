package indexer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/metrics"
	"github.com/dshills/drivesearch-mcp/internal/remote"
	"github.com/dshills/drivesearch-mcp/internal/storage"
)

// RootName is the display name given to the traversal root
const RootName = "Root"

// Indexer mirrors the remote folder tree into the folder store
type Indexer struct {
	lister remote.Lister
	store  storage.FolderStore
	logger *zap.Logger
	now    func() time.Time
}

// Statistics contains statistics about the most recent build
type Statistics struct {
	FoldersVisited  int
	ListingFailures int
	PersistFailures int
	Duration        time.Duration
}

// node is a queued folder awaiting its visit
type node struct {
	id       string
	parentID *string
	name     string
	path     string
}

// New creates a new Indexer instance
func New(lister remote.Lister, store storage.FolderStore, logger *zap.Logger) *Indexer {
	return &Indexer{
		lister: lister,
		store:  store,
		logger: logging.OrDefault(logger),
		now:    time.Now,
	}
}

// Build traverses the folder tree breadth-first from rootID and returns the
// visited folder IDs in BFS order. Every visited folder is written to the
// store as it is reached, so an interrupted build leaves a valid partial
// snapshot. Build never fails: listing errors turn the folder into a leaf and
// store errors are logged.
func (idx *Indexer) Build(ctx context.Context, rootID string) []string {
	ids, _ := idx.BuildWithStats(ctx, rootID)
	return ids
}

// BuildWithStats is Build and also reports what happened during the traversal
func (idx *Indexer) BuildWithStats(ctx context.Context, rootID string) ([]string, *Statistics) {
	startTime := time.Now()
	stats := &Statistics{}

	queue := []node{{id: rootID, name: RootName, path: "/" + RootName}}
	visited := make(map[string]bool)
	ids := make([]string, 0)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.id] {
			continue
		}
		visited[current.id] = true
		ids = append(ids, current.id)

		idx.persist(ctx, current, stats)

		children, err := idx.listChildren(ctx, current.id)
		if err != nil {
			stats.ListingFailures++
			metrics.RecordListingFailure()
			idx.logger.Warn("failed to list subfolders, treating as leaf",
				zap.String("folder_id", current.id),
				zap.Error(err))
		}
		// Folders from pages fetched before a failure are still enqueued
		parentID := current.id
		for _, child := range children {
			queue = append(queue, node{
				id:       child.ID,
				parentID: &parentID,
				name:     child.Name,
				path:     current.path + "/" + child.Name,
			})
		}
	}

	stats.FoldersVisited = len(ids)
	stats.Duration = time.Since(startTime)
	metrics.RecordFolderBuild(stats.Duration, stats.FoldersVisited)
	idx.logger.Info("built folder cache",
		zap.String("root_id", rootID),
		zap.Int("folders", stats.FoldersVisited),
		zap.Int("listing_failures", stats.ListingFailures),
		zap.Duration("duration", stats.Duration))

	return ids, stats
}

// listChildren pages through the immediate child folders of folderID
func (idx *Indexer) listChildren(ctx context.Context, folderID string) ([]remote.Folder, error) {
	var children []remote.Folder
	pageToken := ""
	for {
		page, err := idx.lister.ListFolders(ctx, folderID, pageToken)
		if err != nil {
			return children, err
		}
		children = append(children, page.Folders...)

		pageToken = page.NextPageToken
		if pageToken == "" {
			return children, nil
		}
	}
}

// persist writes the folder record, logging instead of failing the build
func (idx *Indexer) persist(ctx context.Context, n node, stats *Statistics) {
	record := &storage.FolderRecord{
		ID:          n.id,
		ParentID:    n.parentID,
		Name:        n.name,
		Path:        n.path,
		LastUpdated: idx.now(),
		Active:      true,
	}
	if err := idx.store.UpsertFolder(ctx, record); err != nil {
		stats.PersistFailures++
		metrics.RecordPersistFailure("folder")
		idx.logger.Warn("failed to cache folder",
			zap.String("folder_id", n.id),
			zap.Error(err))
	}
}
