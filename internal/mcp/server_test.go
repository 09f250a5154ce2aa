package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/drivesearch-mcp/internal/remote/remotetest"
	"github.com/dshills/drivesearch-mcp/internal/service"
	"github.com/dshills/drivesearch-mcp/internal/storage"
	"github.com/dshills/drivesearch-mcp/pkg/types"
)

func setupServer(t *testing.T, rootID string) (*Server, *remotetest.Fake) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fake := remotetest.NewFake().
		AddFolder("root", "sub", "Sub").
		AddDocument("root", types.SearchHit{ID: "d1", Name: "hymn.pdf", MimeType: types.DefaultDocumentMimeType}).
		AddDocument("sub", types.SearchHit{ID: "d2", Name: "聖歌.pdf", MimeType: types.DefaultDocumentMimeType})

	svc, err := service.New(store, fake, service.Options{
		RootFolderID: rootID,
		MaxAge:       time.Hour,
		Logger:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return NewServer(svc, zaptest.NewLogger(t)), fake
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	if args != nil {
		req.Params.Arguments = args
	}
	return req
}

func decode(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func requireMCPError(t *testing.T, err error, code int) {
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, code, mcpErr.Code)
}

func TestNewServer(t *testing.T) {
	s, _ := setupServer(t, "root")
	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.backend)
}

func TestSearchDocuments(t *testing.T) {
	s, fake := setupServer(t, "root")
	ctx := context.Background()

	result, err := s.handleSearchDocuments(ctx, callRequest("search_documents", map[string]interface{}{
		"query": "hymn",
	}))
	require.NoError(t, err)

	out := decode(t, result)
	assert.Equal(t, "hymn", out["query"])
	assert.Equal(t, "root", out["root_folder_id"])
	assert.EqualValues(t, 2, out["folders_searched"])
	assert.EqualValues(t, 2, out["total_results"])
	assert.Contains(t, out["condition"], "name contains '聖歌'")
	assert.NotContains(t, out, "failed_folders")
	assert.Equal(t, 1, fake.BatchCalls())
}

func TestSearchDocuments_ReportsFailures(t *testing.T) {
	s, fake := setupServer(t, "root")
	fake.FailQuery("sub")

	result, err := s.handleSearchDocuments(context.Background(), callRequest("search_documents", map[string]interface{}{
		"query": "hymn",
	}))
	require.NoError(t, err)

	out := decode(t, result)
	assert.EqualValues(t, 1, out["total_results"])
	assert.EqualValues(t, 1, out["failed_folders"])
}

func TestSearchDocuments_Validation(t *testing.T) {
	s, _ := setupServer(t, "root")
	ctx := context.Background()

	_, err := s.handleSearchDocuments(ctx, callRequest("search_documents", map[string]interface{}{}))
	requireMCPError(t, err, ErrorCodeInvalidParams)

	_, err = s.handleSearchDocuments(ctx, callRequest("search_documents", map[string]interface{}{"query": "   "}))
	requireMCPError(t, err, ErrorCodeEmptyParameter)

	var req mcp.CallToolRequest
	req.Params.Arguments = "not a map"
	_, err = s.handleSearchDocuments(ctx, req)
	requireMCPError(t, err, ErrorCodeInvalidParams)
}

func TestSearchDocuments_MissingFolder(t *testing.T) {
	s, _ := setupServer(t, "")

	_, err := s.handleSearchDocuments(context.Background(), callRequest("search_documents", map[string]interface{}{
		"query": "hymn",
	}))
	requireMCPError(t, err, ErrorCodeMissingFolder)
}

func TestListFolder(t *testing.T) {
	s, fake := setupServer(t, "root")
	ctx := context.Background()

	result, err := s.handleListFolder(ctx, callRequest("list_folder", nil))
	require.NoError(t, err)
	out := decode(t, result)
	assert.EqualValues(t, 2, out["total_items"])

	fake.FailListing("sub")
	_, err = s.handleListFolder(ctx, callRequest("list_folder", map[string]interface{}{"folder_id": "sub"}))
	requireMCPError(t, err, ErrorCodeRemoteAccess)
}

func TestRefreshAndInvalidate(t *testing.T) {
	s, _ := setupServer(t, "root")
	ctx := context.Background()

	result, err := s.handleRefreshFolders(ctx, callRequest("refresh_folders", nil))
	require.NoError(t, err)
	assert.EqualValues(t, 2, decode(t, result)["folders_count"])

	result, err = s.handleCacheStatus(ctx, callRequest("cache_status", nil))
	require.NoError(t, err)
	status := decode(t, result)
	assert.Equal(t, true, status["root_fresh"])
	assert.Contains(t, status, "last_updated")

	result, err = s.handleInvalidateCache(ctx, callRequest("invalidate_cache", map[string]interface{}{"folder_id": "root"}))
	require.NoError(t, err)
	out := decode(t, result)
	assert.Equal(t, false, out["all"])
	assert.Equal(t, "root", out["folder_id"])

	result, err = s.handleInvalidateCache(ctx, callRequest("invalidate_cache", nil))
	require.NoError(t, err)
	assert.Equal(t, true, decode(t, result)["all"])

	result, err = s.handleCacheStatus(ctx, callRequest("cache_status", nil))
	require.NoError(t, err)
	status = decode(t, result)
	assert.Equal(t, false, status["root_fresh"])
	stats := status["statistics"].(map[string]interface{})
	assert.EqualValues(t, 0, stats["active_folders"])
	assert.EqualValues(t, 2, stats["total_folders"])
}

func TestExpandSynonyms(t *testing.T) {
	s, _ := setupServer(t, "root")
	ctx := context.Background()

	result, err := s.handleExpandSynonyms(ctx, callRequest("expand_synonyms", map[string]interface{}{"word": "hymn"}))
	require.NoError(t, err)
	out := decode(t, result)
	assert.Equal(t, []interface{}{"hymn", "賛美歌", "聖歌"}, out["synonyms"])

	_, err = s.handleExpandSynonyms(ctx, callRequest("expand_synonyms", map[string]interface{}{"word": ""}))
	requireMCPError(t, err, ErrorCodeEmptyParameter)
}

func TestToolSchemas(t *testing.T) {
	tools := []mcp.Tool{
		searchDocumentsTool(),
		listFolderTool(),
		refreshFoldersTool(),
		invalidateCacheTool(),
		expandSynonymsTool(),
		cacheStatusTool(),
	}

	names := make(map[string]bool)
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.Equal(t, "object", tool.InputSchema.Type, tool.Name)
		for _, req := range tool.InputSchema.Required {
			assert.Contains(t, tool.InputSchema.Properties, req, tool.Name)
		}
		names[tool.Name] = true
	}
	assert.Len(t, names, len(tools), "tool names are unique")
}
