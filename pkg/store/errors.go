package store

import "github.com/metadeploy/metadeploy-sdk/pkg/util/errors"

// Errors hit in the store
var (
	ErrStoreClosed = errors.New(1100, "the store is closed")
)
