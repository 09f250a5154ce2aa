package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/dshills/drivesearch-mcp/pkg/types"
)

type fakeFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mimeType,omitempty"`
	WebViewLink string `json:"webViewLink,omitempty"`
}

// driveAPI is a minimal stand-in for the Drive v3 files endpoints
type driveAPI struct {
	mu       sync.Mutex
	pages    map[string][][]fakeFile // parent -> folder pages
	docs     map[string][]fakeFile   // parent -> documents
	failing  map[string]bool         // parents whose queries return 500
	queries  []string
	orderBys []string
}

func parentOf(q string) string {
	if !strings.HasPrefix(q, "'") {
		return ""
	}
	end := strings.Index(q[1:], "'")
	if end < 0 {
		return ""
	}
	return q[1 : end+1]
}

func (a *driveAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !strings.HasSuffix(r.URL.Path, "/files") && !strings.Contains(r.URL.Path, "/files/") {
		http.NotFound(w, r)
		return
	}

	// files.get
	if idx := strings.Index(r.URL.Path, "/files/"); idx >= 0 {
		id := r.URL.Path[idx+len("/files/"):]
		if a.failing[id] {
			http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(fakeFile{ID: id, MimeType: types.FolderMimeType})
		return
	}

	q := r.URL.Query().Get("q")
	a.queries = append(a.queries, q)
	a.orderBys = append(a.orderBys, r.URL.Query().Get("orderBy"))
	parent := parentOf(q)
	if a.failing[parent] {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
		return
	}

	resp := map[string]interface{}{}
	if strings.Contains(q, types.FolderMimeType) {
		pages := a.pages[parent]
		page := 0
		if tok := r.URL.Query().Get("pageToken"); tok != "" {
			page = int(tok[0] - '0')
		}
		files := []fakeFile{}
		if page < len(pages) {
			files = pages[page]
		}
		resp["files"] = files
		if page+1 < len(pages) {
			resp["nextPageToken"] = string(rune('0' + page + 1))
		}
	} else {
		files := a.docs[parent]
		if files == nil {
			files = []fakeFile{}
		}
		resp["files"] = files
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestDrive(t *testing.T, api *driveAPI) *Drive {
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	d, err := NewDrive(context.Background(), DriveConfig{
		Concurrency: 2,
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithoutAuthentication(),
		},
	})
	require.NoError(t, err)
	return d
}

func TestNewDrive_NoCredentials(t *testing.T) {
	_, err := NewDrive(context.Background(), DriveConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRemoteAccess)
	assert.ErrorIs(t, err, types.ErrNoCredentials)
}

func TestNewDrive_BadCredentials(t *testing.T) {
	_, err := NewDrive(context.Background(), DriveConfig{CredentialsJSON: "{not json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRemoteAccess)
}

func TestDrive_ListFolders_Pages(t *testing.T) {
	api := &driveAPI{pages: map[string][][]fakeFile{
		"root": {
			{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
			{{ID: "c", Name: "C"}},
		},
	}}
	d := newTestDrive(t, api)
	ctx := context.Background()

	page, err := d.ListFolders(ctx, "root", "")
	require.NoError(t, err)
	assert.Equal(t, []Folder{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, page.Folders)
	require.NotEmpty(t, page.NextPageToken)

	page, err = d.ListFolders(ctx, "root", page.NextPageToken)
	require.NoError(t, err)
	assert.Equal(t, []Folder{{ID: "c", Name: "C"}}, page.Folders)
	assert.Empty(t, page.NextPageToken)

	assert.Equal(t, ChildFoldersQuery("root"), api.queries[0])
}

func TestDrive_ListFolders_Error(t *testing.T) {
	api := &driveAPI{failing: map[string]bool{"root": true}}
	d := newTestDrive(t, api)

	_, err := d.ListFolders(context.Background(), "root", "")
	assert.Error(t, err)
}

func TestDrive_BatchList_IsolatesFailures(t *testing.T) {
	api := &driveAPI{
		docs: map[string][]fakeFile{
			"f1": {{ID: "d1", Name: "one.pdf", MimeType: "application/pdf", WebViewLink: "https://example/d1"}},
			"f3": {{ID: "d3", Name: "three.pdf", MimeType: "application/pdf"}},
		},
		failing: map[string]bool{"f2": true},
	}
	d := newTestDrive(t, api)

	reqs := []SubRequest{
		{FolderID: "f1", Query: DocumentsQuery("f1", "application/pdf", "")},
		{FolderID: "f2", Query: DocumentsQuery("f2", "application/pdf", "")},
		{FolderID: "f3", Query: DocumentsQuery("f3", "application/pdf", "")},
	}
	results, err := d.BatchList(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "f1", results[0].FolderID)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, []types.SearchHit{{ID: "d1", Name: "one.pdf", MimeType: "application/pdf", Link: "https://example/d1"}}, results[0].Hits)

	assert.Equal(t, "f2", results[1].FolderID)
	assert.Error(t, results[1].Err)
	assert.Empty(t, results[1].Hits)

	assert.NoError(t, results[2].Err)
	assert.Len(t, results[2].Hits, 1)
}

func TestDrive_BatchList_CanceledContext(t *testing.T) {
	d := newTestDrive(t, &driveAPI{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.BatchList(ctx, []SubRequest{{FolderID: "f1", Query: DocumentsQuery("f1", "application/pdf", "")}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDrive_ListChildren(t *testing.T) {
	api := &driveAPI{docs: map[string][]fakeFile{
		"root": {
			{ID: "sub", Name: "Sub", MimeType: types.FolderMimeType},
			{ID: "d1", Name: "a.pdf", MimeType: "application/pdf"},
		},
	}}
	d := newTestDrive(t, api)

	hits, err := d.ListChildren(context.Background(), "root")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.True(t, hits[0].IsFolder())
	assert.Equal(t, "folder,name", api.orderBys[0])
}

func TestDrive_Verify(t *testing.T) {
	api := &driveAPI{failing: map[string]bool{"gone": true}}
	d := newTestDrive(t, api)
	ctx := context.Background()

	assert.NoError(t, d.Verify(ctx, "root"))

	err := d.Verify(ctx, "gone")
	assert.ErrorIs(t, err, types.ErrRemoteAccess)
}
