// Package remote defines the remote folder store the indexer and searcher
// run against, and implements it for Google Drive.
//
// Lister covers the two calls the core depends on: paginated child-folder
// listing and batched per-folder document queries. Drive implements a batch
// as concurrent files.list calls bounded by DriveConfig.Concurrency; the
// call returns once every sub-request has finished, and each SubResult
// carries its own error.
//
// The query builders escape backslashes and single quotes in every literal
// they embed.
package remote
