package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/dshills/drivesearch-mcp/internal/logging"
	"github.com/dshills/drivesearch-mcp/internal/service"
	"github.com/dshills/drivesearch-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeRemoteAccess   = -32001 // Remote store rejected or could not be reached
	ErrorCodeMissingFolder  = -32002 // No folder given and no root folder configured
	ErrorCodeEmptyParameter = -32004 // Required string parameter is empty
)

// handleSearchDocuments handles the search_documents tool invocation
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx, "search_documents")

	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	query, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or not a string",
		})
	}
	if strings.TrimSpace(query) == "" {
		return nil, newMCPError(ErrorCodeEmptyParameter, "query parameter cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "empty",
		})
	}

	result, err := s.backend.Search(ctx, service.SearchRequest{
		Query:        query,
		FolderID:     getStringDefault(args, "folder_id", ""),
		ForceRefresh: getBoolDefault(args, "force_refresh", false),
	})
	if err != nil {
		return nil, s.toolError(ctx, "search failed", err)
	}

	response := map[string]interface{}{
		"query":            result.Query,
		"condition":        result.Condition,
		"root_folder_id":   result.RootFolderID,
		"folders_searched": result.FoldersSearched,
		"total_results":    len(result.Hits),
		"results":          result.Hits,
		"duration_ms":      result.Duration.Milliseconds(),
	}
	if result.FailedFolders > 0 || result.FailedChunks > 0 {
		response["failed_folders"] = result.FailedFolders
		response["failed_chunks"] = result.FailedChunks
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListFolder handles the list_folder tool invocation
func (s *Server) handleListFolder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx, "list_folder")

	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	items, err := s.backend.Browse(ctx, getStringDefault(args, "folder_id", ""))
	if err != nil {
		return nil, s.toolError(ctx, "listing failed", err)
	}

	response := map[string]interface{}{
		"total_items": len(items),
		"items":       items,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRefreshFolders handles the refresh_folders tool invocation
func (s *Server) handleRefreshFolders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx, "refresh_folders")

	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	ids, err := s.backend.Refresh(ctx, getStringDefault(args, "folder_id", ""))
	if err != nil {
		return nil, s.toolError(ctx, "refresh failed", err)
	}

	response := map[string]interface{}{
		"refreshed":     true,
		"folders_count": len(ids),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleInvalidateCache handles the invalidate_cache tool invocation
func (s *Server) handleInvalidateCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx, "invalidate_cache")

	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	folderID := getStringDefault(args, "folder_id", "")
	if err := s.backend.Invalidate(ctx, folderID, folderID == ""); err != nil {
		return nil, s.toolError(ctx, "invalidation failed", err)
	}

	response := map[string]interface{}{
		"invalidated": true,
		"all":         folderID == "",
	}
	if folderID != "" {
		response["folder_id"] = folderID
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleExpandSynonyms handles the expand_synonyms tool invocation
func (s *Server) handleExpandSynonyms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx, "expand_synonyms")

	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	word, ok := args["word"].(string)
	if !ok || strings.TrimSpace(word) == "" {
		return nil, newMCPError(ErrorCodeEmptyParameter, "word parameter is required and cannot be empty", map[string]interface{}{
			"param":  "word",
			"reason": "missing or empty",
		})
	}

	response := map[string]interface{}{
		"word":     word,
		"synonyms": s.backend.Synonyms(ctx, word),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCacheStatus handles the cache_status tool invocation
func (s *Server) handleCacheStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.requestContext(ctx, "cache_status")

	status, err := s.backend.Status(ctx)
	if err != nil {
		return nil, s.toolError(ctx, "failed to get status", err)
	}

	response := map[string]interface{}{
		"root_folder_id": status.RootFolderID,
		"root_fresh":     status.RootFresh,
		"max_age":        status.MaxAge,
		"statistics": map[string]interface{}{
			"total_folders":   status.TotalFolders,
			"active_folders":  status.ActiveFolders,
			"synonym_entries": status.SynonymEntries,
		},
		"database": map[string]interface{}{
			"driver": status.Driver,
		},
	}
	if !status.LastUpdated.IsZero() {
		response["last_updated"] = status.LastUpdated.Format("2006-01-02T15:04:05Z07:00")
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// requestContext tags ctx with the server logger, the tool and a request ID
func (s *Server) requestContext(ctx context.Context, tool string) context.Context {
	return logging.WithRequest(logging.NewContext(ctx, s.logger), tool)
}

// toolError logs err and maps it to an MCP error code
func (s *Server) toolError(ctx context.Context, message string, err error) error {
	logging.WithContext(ctx).Error(message, zap.Error(err))

	switch {
	case errors.Is(err, types.ErrMissingFolderID):
		return newMCPError(ErrorCodeMissingFolder, "folder_id is required when no root folder is configured", map[string]interface{}{
			"param": "folder_id",
		})
	case errors.Is(err, types.ErrRemoteAccess):
		return newMCPError(ErrorCodeRemoteAccess, message, map[string]interface{}{
			"error": err.Error(),
		})
	default:
		return newMCPError(ErrorCodeInternalError, message, map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// arguments returns the tool arguments; a call without arguments yields an
// empty map
func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
