// Package indexer mirrors the remote folder tree into the local snapshot and
// serves the folder universe searched by the batch searcher.
//
// # Building
//
// Indexer.Build walks the tree breadth-first from a root folder:
//
//	idx := indexer.New(drive, store, logger)
//	ids := idx.Build(ctx, rootID)
//	// ids[0] == rootID, then every reachable folder in BFS order
//
// Each folder is written to the store the moment it is visited (update or
// create by ID, last_updated set to now). A folder reachable through several
// parents is recorded once, under the route the traversal reached first.
//
// Failures never abort a build:
//
//   - a failed child listing is logged and the folder is treated as a leaf
//   - a failed store write is logged and the traversal continues
//
// so the returned slice always contains at least the root.
//
// # Caching
//
// Cache decides whether the stored snapshot can be used:
//
//	cache := indexer.NewCache(store, idx, indexer.CacheConfig{MaxAge: 24 * time.Hour})
//	ids := cache.GetAllIDs(ctx, rootID, false)
//
// The snapshot is fresh when the root record is active and younger than
// MaxAge. Stale, forced or empty reads delegate to the Indexer. Invalidate
// and InvalidateAll tombstone records (is_active = false) so the next lookup
// rebuilds; rows are never deleted.
//
// # Concurrency
//
// Rebuilds of the same root within one process are coalesced. Separate
// processes sharing a database can still interleave writes to the same rows;
// each row is last-writer-wins.
package indexer
