package types

// SearchHit is a single document matched by a folder query.
// Hits are never persisted; they are aggregated per request in arrival order.
type SearchHit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Link     string `json:"webViewLink,omitempty"`
}

// Validate checks that the hit can be returned to a caller
func (h *SearchHit) Validate() error {
	if h.ID == "" {
		return ErrMissingHitID
	}
	return nil
}

// IsFolder reports whether the hit is a folder entry (navigation mode only)
func (h *SearchHit) IsFolder() bool {
	return h.MimeType == FolderMimeType
}

// FolderMimeType is the remote store's MIME type for folders
const FolderMimeType = "application/vnd.google-apps.folder"

// DefaultDocumentMimeType is the document type searched by default
const DefaultDocumentMimeType = "application/pdf"
