package indexer

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/drivesearch-mcp/internal/remote/remotetest"
	"github.com/dshills/drivesearch-mcp/internal/storage"
)

func setupStore(t *testing.T) *storage.SQLStorage {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// sampleTree builds:
//
//	root
//	├── a
//	│   ├── a1
//	│   └── a2
//	├── b
//	│   └── b1
//	└── c
func sampleTree() *remotetest.Fake {
	return remotetest.NewFake().
		AddFolder("root", "a", "A").
		AddFolder("root", "b", "B").
		AddFolder("root", "c", "C").
		AddFolder("a", "a1", "A1").
		AddFolder("a", "a2", "A2").
		AddFolder("b", "b1", "B1")
}

// failingStore fails every folder write
type failingStore struct {
	storage.FolderStore
}

func (failingStore) UpsertFolder(ctx context.Context, folder *storage.FolderRecord) error {
	return errors.New("disk full")
}

func TestBuild_BFSOrder(t *testing.T) {
	store := setupStore(t)
	idx := New(sampleTree(), store, zaptest.NewLogger(t))

	ids := idx.Build(context.Background(), "root")
	assert.Equal(t, []string{"root", "a", "b", "c", "a1", "a2", "b1"}, ids)
}

func TestBuild_WritesThrough(t *testing.T) {
	store := setupStore(t)
	idx := New(sampleTree(), store, zaptest.NewLogger(t))
	ctx := context.Background()

	idx.Build(ctx, "root")

	root, err := store.GetFolder(ctx, "root")
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Equal(t, RootName, root.Name)
	assert.Equal(t, "/Root", root.Path)
	assert.True(t, root.Active)

	a1, err := store.GetFolder(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, a1.ParentID)
	assert.Equal(t, "a", *a1.ParentID)
	assert.Equal(t, "A1", a1.Name)
	assert.Equal(t, "/Root/A/A1", a1.Path)
}

func TestBuild_Paginates(t *testing.T) {
	fake := remotetest.NewFake()
	fake.PageSize = 2
	for _, id := range []string{"f1", "f2", "f3", "f4", "f5"} {
		fake.AddFolder("root", id, id)
	}
	idx := New(fake, setupStore(t), zaptest.NewLogger(t))

	ids := idx.Build(context.Background(), "root")
	assert.Equal(t, []string{"root", "f1", "f2", "f3", "f4", "f5"}, ids)
	assert.Equal(t, 3, fake.ListCalls("root"), "5 folders at 2 per page is 3 pages")
}

func TestBuild_ListingFailureIsLeaf(t *testing.T) {
	fake := sampleTree().FailListing("a")
	store := setupStore(t)
	idx := New(fake, store, zaptest.NewLogger(t))

	ids, stats := idx.BuildWithStats(context.Background(), "root")
	assert.Equal(t, []string{"root", "a", "b", "c", "b1"}, ids)
	assert.Equal(t, 1, stats.ListingFailures)

	// The failing folder itself is still recorded
	_, err := store.GetFolder(context.Background(), "a")
	assert.NoError(t, err)
}

func TestBuild_RootAlwaysIncluded(t *testing.T) {
	fake := remotetest.NewFake().FailListing("root")
	idx := New(fake, setupStore(t), zaptest.NewLogger(t))

	ids := idx.Build(context.Background(), "root")
	assert.Equal(t, []string{"root"}, ids)
}

func TestBuild_MultiParentFirstSeenWins(t *testing.T) {
	// shared is reachable from root directly and through deep/mid
	fake := remotetest.NewFake().
		AddFolder("root", "deep", "Deep").
		AddFolder("root", "shared", "Shared").
		AddFolder("deep", "shared", "SharedAgain")
	store := setupStore(t)
	idx := New(fake, store, zaptest.NewLogger(t))
	ctx := context.Background()

	ids := idx.Build(ctx, "root")
	assert.Equal(t, []string{"root", "deep", "shared"}, ids)

	rec, err := store.GetFolder(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "root", *rec.ParentID)
	assert.Equal(t, "Shared", rec.Name)
}

func TestBuild_Cycle(t *testing.T) {
	fake := remotetest.NewFake().
		AddFolder("root", "a", "A").
		AddFolder("a", "root", "Loop")
	idx := New(fake, setupStore(t), zaptest.NewLogger(t))

	ids := idx.Build(context.Background(), "root")
	assert.Equal(t, []string{"root", "a"}, ids)
}

func TestBuild_PersistFailureContinues(t *testing.T) {
	idx := New(sampleTree(), failingStore{}, zaptest.NewLogger(t))

	ids, stats := idx.BuildWithStats(context.Background(), "root")
	assert.Len(t, ids, 7)
	assert.Equal(t, 7, stats.PersistFailures)
}

func TestBuild_Idempotent(t *testing.T) {
	store := setupStore(t)
	idx := New(sampleTree(), store, zaptest.NewLogger(t))
	ctx := context.Background()

	first := idx.Build(ctx, "root")
	second := idx.Build(ctx, "root")

	sort.Strings(first)
	sort.Strings(second)
	assert.Equal(t, first, second)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, status.TotalFolders, "rebuild must not duplicate records")
}

func TestBuild_RefreshesTimestamp(t *testing.T) {
	store := setupStore(t)
	idx := New(sampleTree(), store, zaptest.NewLogger(t))
	ctx := context.Background()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	idx.now = func() time.Time { return t0 }
	idx.Build(ctx, "root")

	t1 := t0.Add(48 * time.Hour)
	idx.now = func() time.Time { return t1 }
	idx.Build(ctx, "root")

	rec, err := store.GetFolder(ctx, "root")
	require.NoError(t, err)
	assert.True(t, t1.Equal(rec.LastUpdated))
}
