package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting the folder snapshot and the
// synonym memoization cache
type Storage interface {
	FolderStore
	SynonymStore

	// Status operations
	GetStatus(ctx context.Context) (*CacheStatus, error)

	// Database operations
	Close() error
}

// FolderStore persists FolderRecords keyed by remote folder ID
type FolderStore interface {
	UpsertFolder(ctx context.Context, folder *FolderRecord) error
	GetFolder(ctx context.Context, folderID string) (*FolderRecord, error)
	ListActiveFolderIDs(ctx context.Context) ([]string, error)
	ListChildFolders(ctx context.Context, parentID string) ([]*FolderRecord, error)

	// Deactivate operations tombstone rows; nothing is ever hard-deleted.
	DeactivateFolder(ctx context.Context, folderID string) (int64, error)
	DeactivateAllFolders(ctx context.Context) (int64, error)
}

// SynonymStore persists expanded synonym sets keyed by the original word
type SynonymStore interface {
	GetSynonyms(ctx context.Context, word string) (*SynonymEntry, error)
	PutSynonyms(ctx context.Context, entry *SynonymEntry) error
}

// FolderRecord is one folder of the mirrored remote tree
type FolderRecord struct {
	ID          string
	ParentID    *string // Nil only for the traversal root
	Name        string
	Path        string // Display path along the first-seen route
	LastUpdated time.Time
	Active      bool // False marks an invalidated (tombstoned) record
}

// IsRoot reports whether the record is a traversal root
func (f *FolderRecord) IsRoot() bool {
	return f.ParentID == nil
}

// SynonymEntry is an immutable memoized expansion of a word
type SynonymEntry struct {
	Word      string // Original, non-normalized input
	Variants  []string
	CreatedAt time.Time
}

// CacheStatus contains statistics about the persisted snapshot
type CacheStatus struct {
	TotalFolders   int
	ActiveFolders  int
	SynonymEntries int
	LastUpdated    time.Time // Most recent folder write, zero when empty
	Driver         string
}
