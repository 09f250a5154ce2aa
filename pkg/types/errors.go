package types

import "errors"

// Domain errors shared across packages
var (
	// Remote store errors
	ErrRemoteAccess  = errors.New("remote store access failed")
	ErrNoCredentials = errors.New("no remote credentials configured")

	// Request errors
	ErrMissingFolderID = errors.New("folder ID is required")
	ErrMissingHitID    = errors.New("search hit ID is required")
)
