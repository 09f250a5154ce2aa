package searcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/metrics"
	"github.com/dshills/drivesearch-mcp/internal/remote"
	"github.com/dshills/drivesearch-mcp/pkg/types"
)

// DefaultChunkSize is the number of folder queries sent in one batch
const DefaultChunkSize = 100

// Config contains configuration for the batch searcher
type Config struct {
	ChunkSize int    // Sub-requests per batch (default: 100)
	MimeType  string // Document type to match (default: application/pdf)
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Hits          []types.SearchHit
	Chunks        int
	FailedChunks  int
	FailedFolders int
	Duration      time.Duration
}

// Searcher runs one document query per folder, grouped into batches
type Searcher struct {
	lister    remote.Lister
	chunkSize int
	mimeType  string
	logger    *zap.Logger
}

// New creates a new Searcher instance
func New(lister remote.Lister, cfg Config, logger *zap.Logger) *Searcher {
	s := &Searcher{
		lister:    lister,
		chunkSize: cfg.ChunkSize,
		mimeType:  cfg.MimeType,
		logger:    logging.OrDefault(logger),
	}
	if s.chunkSize <= 0 {
		s.chunkSize = DefaultChunkSize
	}
	if s.mimeType == "" {
		s.mimeType = types.DefaultDocumentMimeType
	}
	return s
}

// ChunkSize returns the configured batch size
func (s *Searcher) ChunkSize() int {
	return s.chunkSize
}

// Search queries every folder in folderIDs for documents matching condition
// and returns the hits in response order. Failures are isolated: a failed
// sub-request drops that folder and a failed batch drops that chunk.
func (s *Searcher) Search(ctx context.Context, folderIDs []string, condition string) []types.SearchHit {
	return s.SearchWithStats(ctx, folderIDs, condition).Hits
}

// SearchWithStats is Search and also reports chunk and folder failures
func (s *Searcher) SearchWithStats(ctx context.Context, folderIDs []string, condition string) *SearchResponse {
	startTime := time.Now()
	resp := &SearchResponse{Hits: make([]types.SearchHit, 0)}
	if len(folderIDs) == 0 {
		return resp
	}

	chunks := Chunks(folderIDs, s.chunkSize)
	resp.Chunks = len(chunks)

	for i, chunk := range chunks {
		requests := make([]remote.SubRequest, 0, len(chunk))
		for _, id := range chunk {
			requests = append(requests, remote.SubRequest{
				FolderID: id,
				Query:    remote.DocumentsQuery(id, s.mimeType, condition),
			})
		}

		results, err := s.lister.BatchList(ctx, requests)
		if err != nil {
			resp.FailedChunks++
			metrics.RecordChunk(false)
			s.logger.Error("batch request failed, skipping chunk",
				zap.Int("chunk", i),
				zap.Int("folders", len(chunk)),
				zap.Error(err))
			continue
		}
		metrics.RecordChunk(true)

		for _, res := range results {
			if res.Err != nil {
				resp.FailedFolders++
				metrics.RecordSubRequestFailure()
				s.logger.Warn("folder query failed",
					zap.String("folder_id", res.FolderID),
					zap.Error(res.Err))
				continue
			}
			resp.Hits = append(resp.Hits, res.Hits...)
		}
	}

	resp.Duration = time.Since(startTime)
	metrics.RecordSearch(resp.Duration, len(resp.Hits))
	s.logger.Info("batch search complete",
		zap.Int("folders", len(folderIDs)),
		zap.Int("chunks", resp.Chunks),
		zap.Int("failed_chunks", resp.FailedChunks),
		zap.Int("failed_folders", resp.FailedFolders),
		zap.Int("hits", len(resp.Hits)),
		zap.Duration("duration", resp.Duration))

	return resp
}

// Chunks splits ids into consecutive groups of at most size elements.
// The result has exactly ceil(len(ids)/size) groups.
func Chunks(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
