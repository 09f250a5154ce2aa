// Package types provides shared type definitions for the drivesearch MCP server.
//
// The package holds the values that cross component boundaries: search hits
// returned by the batch searcher and the sentinel errors used by the remote,
// indexer and service layers.
//
// # Search Hits
//
// SearchHit mirrors the subset of remote file metadata a caller needs to
// display and open a document:
//
//	hit := types.SearchHit{
//	    ID:       "1AbC...",
//	    Name:     "Hymn 12.pdf",
//	    MimeType: types.DefaultDocumentMimeType,
//	    Link:     "https://drive.google.com/file/d/1AbC.../view",
//	}
//
// Hits encode to JSON with the remote store's field names (id, name,
// mimeType, webViewLink) so clients written against the remote API can
// consume them unchanged.
//
// # Errors
//
// ErrRemoteAccess wraps every credential or client construction failure. It
// is the only error category that aborts a request; listing and search
// failures are absorbed into partial results.
//
//	if errors.Is(err, types.ErrRemoteAccess) {
//	    // credentials missing or rejected
//	}
package types
