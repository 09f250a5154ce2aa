// Package service wires query composition, the folder cache and the batch
// searcher into the request-level operations exposed by the CLI and the MCP
// server.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/indexer"
	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/query"
	"github.com/dshills/drivesearch-mcp/internal/remote"
	"github.com/dshills/drivesearch-mcp/internal/searcher"
	"github.com/dshills/drivesearch-mcp/internal/storage"
	"github.com/dshills/drivesearch-mcp/internal/synonyms"
	"github.com/dshills/drivesearch-mcp/pkg/types"
)

// Remote is everything the service needs from the remote store
type Remote interface {
	remote.Lister
	remote.Browser
}

// Options configures a Service
type Options struct {
	RootFolderID string // Used when a request names no folder
	MaxAge       time.Duration
	ChunkSize    int
	MimeType     string
	Synonyms     synonyms.Config
	Logger       *zap.Logger
}

// Service runs searches and cache maintenance against one remote store
type Service struct {
	store    storage.Storage
	remote   Remote
	cache    *indexer.Cache
	searcher *searcher.Searcher
	expander *synonyms.Expander
	composer *query.Composer
	rootID   string
	logger   *zap.Logger
}

// New builds a Service and its components over store and rem
func New(store storage.Storage, rem Remote, opts Options) (*Service, error) {
	logger := logging.OrDefault(opts.Logger)
	if opts.Synonyms.Logger == nil {
		opts.Synonyms.Logger = logger
	}

	expander, err := synonyms.NewExpander(store, opts.Synonyms)
	if err != nil {
		return nil, fmt.Errorf("failed to create synonym expander: %w", err)
	}

	idx := indexer.New(rem, store, logger)
	return &Service{
		store:    store,
		remote:   rem,
		cache:    indexer.NewCache(store, idx, indexer.CacheConfig{MaxAge: opts.MaxAge, Logger: logger}),
		searcher: searcher.New(rem, searcher.Config{ChunkSize: opts.ChunkSize, MimeType: opts.MimeType}, logger),
		expander: expander,
		composer: query.NewComposer(expander),
		rootID:   opts.RootFolderID,
		logger:   logger,
	}, nil
}

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query        string
	FolderID     string // Default: the configured root
	ForceRefresh bool
}

// SearchResult contains search results and metadata
type SearchResult struct {
	Query           string            `json:"query"`
	Condition       string            `json:"condition"`
	RootFolderID    string            `json:"root_folder_id"`
	FoldersSearched int               `json:"folders_searched"`
	FailedFolders   int               `json:"failed_folders"`
	FailedChunks    int               `json:"failed_chunks"`
	Hits            []types.SearchHit `json:"hits"`
	Duration        time.Duration     `json:"duration_ns"`
}

// Search finds documents under the requested folder tree whose names match
// every keyword of the query, in any of its variants. A blank query matches
// every document.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	startTime := time.Now()
	rootID, err := s.folder(req.FolderID)
	if err != nil {
		return nil, err
	}

	condition := s.composer.Compose(ctx, req.Query)
	ids := s.cache.GetAllIDs(ctx, rootID, req.ForceRefresh)
	resp := s.searcher.SearchWithStats(ctx, ids, condition)

	result := &SearchResult{
		Query:           req.Query,
		Condition:       condition,
		RootFolderID:    rootID,
		FoldersSearched: len(ids),
		FailedFolders:   resp.FailedFolders,
		FailedChunks:    resp.FailedChunks,
		Hits:            resp.Hits,
		Duration:        time.Since(startTime),
	}
	s.logger.Info("search complete",
		zap.String("root_id", rootID),
		zap.Int("folders", result.FoldersSearched),
		zap.Int("hits", len(result.Hits)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Browse lists every item directly under folderID, folders first
func (s *Service) Browse(ctx context.Context, folderID string) ([]types.SearchHit, error) {
	id, err := s.folder(folderID)
	if err != nil {
		return nil, err
	}
	items, err := s.remote.ListChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRemoteAccess, err)
	}
	return items, nil
}

// CachedChildren lists the cached child folders of folderID without
// contacting the remote store
func (s *Service) CachedChildren(ctx context.Context, folderID string) ([]*storage.FolderRecord, error) {
	id, err := s.folder(folderID)
	if err != nil {
		return nil, err
	}
	children, err := s.store.ListChildFolders(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached folders: %w", err)
	}
	return children, nil
}

// Refresh rebuilds the folder snapshot of folderID and returns the folder IDs
func (s *Service) Refresh(ctx context.Context, folderID string) ([]string, error) {
	id, err := s.folder(folderID)
	if err != nil {
		return nil, err
	}
	return s.cache.Rebuild(ctx, id), nil
}

// Invalidate tombstones the snapshot of folderID, or every snapshot when
// all is true
func (s *Service) Invalidate(ctx context.Context, folderID string, all bool) error {
	if all {
		return s.cache.InvalidateAll(ctx)
	}
	id, err := s.folder(folderID)
	if err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, id)
}

// Synonyms returns the variants a keyword expands to
func (s *Service) Synonyms(ctx context.Context, word string) []string {
	return s.expander.GetSynonyms(ctx, word)
}

// Compose returns the name condition for query text
func (s *Service) Compose(ctx context.Context, text string) string {
	return s.composer.Compose(ctx, text)
}

// Status reports the state of the local cache
func (s *Service) Status(ctx context.Context) (*Status, error) {
	cs, err := s.store.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache status: %w", err)
	}
	st := &Status{
		RootFolderID:   s.rootID,
		TotalFolders:   cs.TotalFolders,
		ActiveFolders:  cs.ActiveFolders,
		SynonymEntries: cs.SynonymEntries,
		LastUpdated:    cs.LastUpdated,
		Driver:         cs.Driver,
		MaxAge:         s.cache.MaxAge().String(),
	}
	if s.rootID != "" {
		st.RootFresh = s.cache.IsFresh(ctx, s.rootID)
	}
	return st, nil
}

// Status describes the local cache
type Status struct {
	RootFolderID   string    `json:"root_folder_id,omitempty"`
	RootFresh      bool      `json:"root_fresh"`
	TotalFolders   int       `json:"total_folders"`
	ActiveFolders  int       `json:"active_folders"`
	SynonymEntries int       `json:"synonym_entries"`
	LastUpdated    time.Time `json:"last_updated"`
	Driver         string    `json:"driver"`
	MaxAge         string    `json:"max_age"`
}

// RootFolderID returns the configured default folder
func (s *Service) RootFolderID() string {
	return s.rootID
}

func (s *Service) folder(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if s.rootID == "" {
		return "", types.ErrMissingFolderID
	}
	return s.rootID, nil
}
