package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/service"
	"github.com/dshills/drivesearch-mcp/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "drivesearch-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Backend is the set of operations the tools call into.
// *service.Service implements it.
type Backend interface {
	Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error)
	Browse(ctx context.Context, folderID string) ([]types.SearchHit, error)
	Refresh(ctx context.Context, folderID string) ([]string, error)
	Invalidate(ctx context.Context, folderID string, all bool) error
	Synonyms(ctx context.Context, word string) []string
	Status(ctx context.Context) (*service.Status, error)
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	backend Backend
	logger  *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(backend Backend, logger *zap.Logger) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		backend: backend,
		logger:  logging.OrDefault(logger),
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("MCP server ready, listening on stdio")
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool(), s.handleSearchDocuments)
	s.mcp.AddTool(listFolderTool(), s.handleListFolder)
	s.mcp.AddTool(refreshFoldersTool(), s.handleRefreshFolders)
	s.mcp.AddTool(invalidateCacheTool(), s.handleInvalidateCache)
	s.mcp.AddTool(expandSynonymsTool(), s.handleExpandSynonyms)
	s.mcp.AddTool(cacheStatusTool(), s.handleCacheStatus)
}
