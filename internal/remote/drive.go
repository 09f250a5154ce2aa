package remote

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/dshills/drivesearch-mcp/pkg/types"
)

const (
	// DefaultFolderPageSize is the page size used when listing child folders
	DefaultFolderPageSize = 1000
	// DefaultHitsPerFolder caps the documents returned by one folder query
	DefaultHitsPerFolder = 100
	// DefaultBatchConcurrency bounds the sub-requests in flight for one batch
	DefaultBatchConcurrency = 8
)

// DriveConfig configures the Google Drive client
type DriveConfig struct {
	CredentialsFile string // Service account key file
	CredentialsJSON string // Service account key contents, preferred over the file
	FolderPageSize  int64
	HitsPerFolder   int64
	Concurrency     int

	// ClientOptions are appended after the credential options
	ClientOptions []option.ClientOption
}

// Drive implements Lister and Browser against the Google Drive v3 API
type Drive struct {
	files          *drive.FilesService
	folderPageSize int64
	hitsPerFolder  int64
	concurrency    int
}

// NewDrive creates a Drive client. Any credential or client construction
// failure is returned wrapped in types.ErrRemoteAccess.
func NewDrive(ctx context.Context, cfg DriveConfig) (*Drive, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveMetadataReadonlyScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case len(cfg.ClientOptions) == 0:
		return nil, fmt.Errorf("%w: %w", types.ErrRemoteAccess, types.ErrNoCredentials)
	}
	opts = append(opts, cfg.ClientOptions...)

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRemoteAccess, err)
	}

	d := &Drive{
		files:          srv.Files,
		folderPageSize: cfg.FolderPageSize,
		hitsPerFolder:  cfg.HitsPerFolder,
		concurrency:    cfg.Concurrency,
	}
	if d.folderPageSize <= 0 {
		d.folderPageSize = DefaultFolderPageSize
	}
	if d.hitsPerFolder <= 0 {
		d.hitsPerFolder = DefaultHitsPerFolder
	}
	if d.concurrency <= 0 {
		d.concurrency = DefaultBatchConcurrency
	}
	return d, nil
}

// Verify checks that folderID is reachable with the configured credentials
func (d *Drive) Verify(ctx context.Context, folderID string) error {
	_, err := d.files.Get(folderID).
		Fields("id, mimeType").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: folder %s: %v", types.ErrRemoteAccess, folderID, err)
	}
	return nil
}

// ListFolders lists one page of child folders
func (d *Drive) ListFolders(ctx context.Context, parentID, pageToken string) (*FolderPage, error) {
	call := d.files.List().
		Q(ChildFoldersQuery(parentID)).
		Fields("nextPageToken, files(id, name)").
		PageSize(d.folderPageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	list, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list folders of %s: %w", parentID, err)
	}

	page := &FolderPage{
		Folders:       make([]Folder, 0, len(list.Files)),
		NextPageToken: list.NextPageToken,
	}
	for _, f := range list.Files {
		page.Folders = append(page.Folders, Folder{ID: f.Id, Name: f.Name})
	}
	return page, nil
}

// BatchList runs the sub-requests of one batch with bounded parallelism.
// The call returns only when every sub-request has finished.
func (d *Drive) BatchList(ctx context.Context, requests []SubRequest) ([]SubResult, error) {
	results := make([]SubResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, req := range requests {
		g.Go(func() error {
			hits, err := d.listDocuments(gctx, req.Query)
			results[i] = SubResult{FolderID: req.FolderID, Hits: hits, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch of %d requests aborted: %w", len(requests), err)
	}
	return results, nil
}

func (d *Drive) listDocuments(ctx context.Context, query string) ([]types.SearchHit, error) {
	list, err := d.files.List().
		Q(query).
		Fields("files(id, name, mimeType, webViewLink)").
		PageSize(d.hitsPerFolder).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return toHits(list.Files), nil
}

// ListChildren lists every item directly under folderID, folders first
func (d *Drive) ListChildren(ctx context.Context, folderID string) ([]types.SearchHit, error) {
	list, err := d.files.List().
		Q(ChildrenQuery(folderID)).
		Fields("nextPageToken, files(id, name, mimeType, webViewLink)").
		PageSize(d.hitsPerFolder).
		OrderBy("folder,name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", folderID, err)
	}
	return toHits(list.Files), nil
}

func toHits(files []*drive.File) []types.SearchHit {
	hits := make([]types.SearchHit, 0, len(files))
	for _, f := range files {
		hit := types.SearchHit{
			ID:       f.Id,
			Name:     f.Name,
			MimeType: f.MimeType,
			Link:     f.WebViewLink,
		}
		if hit.Validate() != nil {
			continue
		}
		hits = append(hits, hit)
	}
	return hits
}
