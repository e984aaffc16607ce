package common

import "errors"

var (

	// repository / cache errors
	ErrNotFound = errors.New("not found")

	// auth errors
	ErrAuthRequired = errors.New("auth required")
	ErrOwnership    = errors.New("entity owned by another user")

	// sync engine errors
	ErrSyncInProgress = errors.New("sync already in progress")
)
