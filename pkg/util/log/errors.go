package log

import "github.com/metadeploy/metadeploy-sdk/pkg/util/errors"

// Log Config Errors
var (
	ErrInvalidLogConfig = errors.Newf(1010, "logging configuration error - %v does not meet criteria (%v)")
)
