package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchDocumentsTool returns the tool definition for search_documents
func searchDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_documents",
		Description: "Search a Google Drive folder tree for documents whose names match every keyword, including spelling and script variants",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Space-separated keywords; all must match the document name",
				},
				"folder_id": map[string]interface{}{
					"type":        "string",
					"description": "Root folder to search under (default: the configured root folder)",
				},
				"force_refresh": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, rebuild the folder cache before searching",
					"default":     false,
				},
			},
			Required: []string{"query"},
		},
	}
}

// listFolderTool returns the tool definition for list_folder
func listFolderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_folder",
		Description: "List the files and folders directly inside a Drive folder, folders first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"folder_id": map[string]interface{}{
					"type":        "string",
					"description": "Folder to list (default: the configured root folder)",
				},
			},
		},
	}
}

// refreshFoldersTool returns the tool definition for refresh_folders
func refreshFoldersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "refresh_folders",
		Description: "Rebuild the cached folder tree from Google Drive",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"folder_id": map[string]interface{}{
					"type":        "string",
					"description": "Root folder to rebuild (default: the configured root folder)",
				},
			},
		},
	}
}

// invalidateCacheTool returns the tool definition for invalidate_cache
func invalidateCacheTool() mcp.Tool {
	return mcp.Tool{
		Name:        "invalidate_cache",
		Description: "Mark cached folder trees stale so the next search rebuilds them",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"folder_id": map[string]interface{}{
					"type":        "string",
					"description": "Root folder to invalidate; omit to invalidate every cached folder",
				},
			},
		},
	}
}

// expandSynonymsTool returns the tool definition for expand_synonyms
func expandSynonymsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "expand_synonyms",
		Description: "Show the spelling and script variants a keyword is expanded to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"word": map[string]interface{}{
					"type":        "string",
					"description": "Keyword to expand",
				},
			},
			Required: []string{"word"},
		},
	}
}

// cacheStatusTool returns the tool definition for cache_status
func cacheStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "cache_status",
		Description: "Report folder and synonym cache statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
