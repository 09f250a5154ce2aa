package remote

import (
	"context"

	"github.com/dshills/drivesearch-mcp/pkg/types"
)

// Lister is the remote listing capability the indexer and searcher depend on
type Lister interface {
	// ListFolders returns one page of the immediate child folders of parentID.
	// An empty pageToken requests the first page; an empty NextPageToken in
	// the result means the listing is exhausted.
	ListFolders(ctx context.Context, parentID, pageToken string) (*FolderPage, error)

	// BatchList submits every sub-request in one batched round trip.
	// A returned error means the whole batch failed in transport; otherwise
	// each SubResult carries its own success or failure.
	BatchList(ctx context.Context, requests []SubRequest) ([]SubResult, error)
}

// Browser lists every non-trashed item directly under a folder
type Browser interface {
	ListChildren(ctx context.Context, folderID string) ([]types.SearchHit, error)
}

// Folder is a child folder as returned by a listing
type Folder struct {
	ID   string
	Name string
}

// FolderPage is one page of a paginated folder listing
type FolderPage struct {
	Folders       []Folder
	NextPageToken string
}

// SubRequest is a single folder query inside a batch
type SubRequest struct {
	FolderID string
	Query    string
}

// SubResult is the outcome of one SubRequest
type SubResult struct {
	FolderID string
	Hits     []types.SearchHit
	Err      error
}
