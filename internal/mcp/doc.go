// Package mcp implements the Model Context Protocol (MCP) server for drivesearch.
//
// The MCP server exposes six tools:
//   - search_documents: Find documents under a Drive folder tree by name keywords
//   - list_folder: List the direct children of a folder
//   - refresh_folders: Rebuild the cached folder tree
//   - invalidate_cache: Mark cached folder trees stale
//   - expand_synonyms: Show the variants a keyword expands to
//   - cache_status: Report cache statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only; all logging goes to stderr.
//
// # Basic Usage
//
// The MCP server is started via the serve command:
//
//	drivesearch serve
//
// # Tool: search_documents
//
//	Request:
//	{
//	  "query": "happy birthday",
//	  "folder_id": "1AbC...",     // optional, defaults to the configured root
//	  "force_refresh": false      // optional, rebuild the folder cache first
//	}
//
//	Response:
//	{
//	  "query": "happy birthday",
//	  "condition": "(name contains 'happy' or ...) and (name contains 'birthday' or ...)",
//	  "root_folder_id": "1AbC...",
//	  "folders_searched": 42,
//	  "total_results": 3,
//	  "results": [
//	    {"id": "...", "name": "Happy Birthday.pdf", "mimeType": "application/pdf", "webViewLink": "..."}
//	  ],
//	  "duration_ms": 812
//	}
//
// failed_folders and failed_chunks are added when part of the search could
// not be completed. Results from the folders that did answer are still
// returned.
//
// # Tool: list_folder
//
//	Request:  {"folder_id": "1AbC..."}
//	Response: {"total_items": 2, "items": [{"id": "...", "name": "Scores", "mimeType": "application/vnd.google-apps.folder"}, ...]}
//
// # Tool: invalidate_cache
//
// Without folder_id every cached folder is invalidated:
//
//	Request:  {}
//	Response: {"invalidated": true, "all": true}
//
// # Error Handling
//
// Errors are returned as MCPError values with JSON-RPC style codes:
//
//	-32602  Invalid parameters
//	-32603  Internal error
//	-32001  Remote store access failed
//	-32002  No folder given and no root folder configured
//	-32004  Required parameter is empty
//
// # Thread Safety
//
// Handlers may run concurrently. Concurrent rebuilds of the same folder tree
// are coalesced by the folder cache.
package mcp
