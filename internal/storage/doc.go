// Package storage provides SQL persistence for the mirrored folder snapshot
// and the synonym memoization cache.
//
// The storage layer manages:
//   - Folder records (one row per remote folder, tombstoned rather than deleted)
//   - Synonym expansions keyed by the original, non-normalized word
//   - The search result cache table (created for schema compatibility only)
//
// # Database Schema
//
// Tables:
//   - folder_cache: folder_id (PK), parent_id, name, path, last_updated, is_active
//   - synonym_cache: word (PK), synonyms_json, created_at
//   - search_result_cache: query_hash (PK), query_text, results_json, created_at, expires_at
//   - schema_version: applied migration versions
//
// folder_cache carries indexes on parent_id and last_updated.
//
// # Backends
//
// SQLite is the default and needs no server:
//
//	store, err := storage.NewSQLiteStorage("/var/lib/drivesearch/cache.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// PostgreSQL is selected by name through Open:
//
//	store, err := storage.Open("postgres", "postgres://drive:secret@db/drive?sslmode=disable")
//
// Queries are written with ? placeholders and rebound per Dialect.
//
// # Write Semantics
//
// UpsertFolder is update-or-create by folder ID and always overwrites
// last_updated. Concurrent writers to the same row are last-writer-wins;
// nothing is atomic across a whole tree.
//
// PutSynonyms never overwrites: the first expansion stored for a word is the
// one every later lookup sees.
package storage
