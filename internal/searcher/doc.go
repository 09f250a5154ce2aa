// Package searcher finds documents across a set of folders by issuing one
// query per folder, grouped into batched remote calls.
//
// # Basic Usage
//
//	s := searcher.New(drive, searcher.Config{ChunkSize: 100}, logger)
//	hits := s.Search(ctx, folderIDs, condition)
//
// Every folder gets the sub-query
//
//	'<folder id>' in parents and mimeType = 'application/pdf' and trashed = false
//
// followed by " and (<condition>)" when condition is not empty. The condition
// is produced by the query package and is passed through unchanged.
//
// # Batching
//
// Folder IDs are split into ceil(N/ChunkSize) chunks. Chunks are sent one at a
// time; each chunk is a single BatchList call on the remote.Lister.
//
// # Failure Isolation
//
// Nothing in a search returns an error:
//
//   - a failed sub-request is logged and its folder contributes no hits
//   - a failed batch is logged and its chunk is skipped; later chunks proceed
//
// Hits are concatenated in the order the responses list them. No de-duplication
// is applied. SearchWithStats reports how many chunks and folders failed.
package searcher
