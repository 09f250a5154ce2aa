// Package remotetest provides an in-memory remote store for tests.
package remotetest

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/dshills/drivesearch-mcp/internal/remote"
	"github.com/dshills/drivesearch-mcp/pkg/types"
)

// ErrInjected is returned by every failure the Fake is told to simulate
var ErrInjected = errors.New("injected remote failure")

// Fake implements remote.Lister and remote.Browser over an in-memory tree.
// Child folder listings are paginated with PageSize entries per page.
type Fake struct {
	mu sync.Mutex

	PageSize int

	children map[string][]remote.Folder
	docs     map[string][]types.SearchHit

	failList  map[string]bool
	failQuery map[string]bool
	failBatch map[int]bool // 1-based BatchList call numbers that fail in transport

	listCalls  map[string]int
	batchCalls int
	batchSizes []int
	queries    []string
}

// NewFake returns an empty Fake with pagination of two folders per page
func NewFake() *Fake {
	return &Fake{
		PageSize:  2,
		children:  make(map[string][]remote.Folder),
		docs:      make(map[string][]types.SearchHit),
		failList:  make(map[string]bool),
		failQuery: make(map[string]bool),
		failBatch: make(map[int]bool),
		listCalls: make(map[string]int),
	}
}

// AddFolder registers id as a child folder of parentID
func (f *Fake) AddFolder(parentID, id, name string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.children[parentID] = append(f.children[parentID], remote.Folder{ID: id, Name: name})
	return f
}

// AddDocument registers a document hit directly under folderID
func (f *Fake) AddDocument(folderID string, hit types.SearchHit) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[folderID] = append(f.docs[folderID], hit)
	return f
}

// FailListing makes every child listing of folderID fail
func (f *Fake) FailListing(folderID string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failList[folderID] = true
	return f
}

// FailQuery makes the sub-request for folderID fail inside a batch
func (f *Fake) FailQuery(folderID string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failQuery[folderID] = true
	return f
}

// FailBatch makes the n-th BatchList call (1-based) fail in transport
func (f *Fake) FailBatch(n int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failBatch[n] = true
	return f
}

// ListFolders implements remote.Lister
func (f *Fake) ListFolders(ctx context.Context, parentID, pageToken string) (*remote.FolderPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls[parentID]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failList[parentID] {
		return nil, ErrInjected
	}

	start := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil {
			return nil, err
		}
		start = n
	}

	all := f.children[parentID]
	size := f.PageSize
	if size <= 0 {
		size = len(all) + 1
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	page := &remote.FolderPage{Folders: append([]remote.Folder(nil), all[start:end]...)}
	if end < len(all) {
		page.NextPageToken = strconv.Itoa(end)
	}
	return page, nil
}

// BatchList implements remote.Lister. The query text is recorded but not
// evaluated: every document under the folder matches.
func (f *Fake) BatchList(ctx context.Context, requests []remote.SubRequest) ([]remote.SubResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batchCalls++
	f.batchSizes = append(f.batchSizes, len(requests))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failBatch[f.batchCalls] {
		return nil, ErrInjected
	}

	results := make([]remote.SubResult, 0, len(requests))
	for _, req := range requests {
		f.queries = append(f.queries, req.Query)
		res := remote.SubResult{FolderID: req.FolderID}
		if f.failQuery[req.FolderID] {
			res.Err = ErrInjected
		} else {
			res.Hits = append([]types.SearchHit(nil), f.docs[req.FolderID]...)
		}
		results = append(results, res)
	}
	return results, nil
}

// ListChildren implements remote.Browser: folders first, then documents
func (f *Fake) ListChildren(ctx context.Context, folderID string) ([]types.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failList[folderID] {
		return nil, ErrInjected
	}
	hits := make([]types.SearchHit, 0)
	for _, c := range f.children[folderID] {
		hits = append(hits, types.SearchHit{ID: c.ID, Name: c.Name, MimeType: types.FolderMimeType})
	}
	hits = append(hits, f.docs[folderID]...)
	return hits, nil
}

// ListCalls returns how many listing pages were requested for parentID
func (f *Fake) ListCalls(parentID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[parentID]
}

// TotalListCalls returns the number of listing pages requested overall
func (f *Fake) TotalListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.listCalls {
		total += n
	}
	return total
}

// BatchCalls returns how many BatchList calls were made
func (f *Fake) BatchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batchCalls
}

// BatchSizes returns the sub-request count of every BatchList call
func (f *Fake) BatchSizes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.batchSizes...)
}

// Queries returns every sub-request query received, in order
func (f *Fake) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}
