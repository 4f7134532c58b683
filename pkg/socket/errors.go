package socket

import "github.com/metadeploy/metadeploy-sdk/pkg/util/errors"

// Errors hit by the push channel
var (
	ErrInvalidPayload  = errors.Newf(1300, "could not read the %s payload: %s")
	ErrNotStarted      = errors.New(1301, "the push channel was never started")
	ErrAlreadyStarted  = errors.New(1302, "the push channel is already started")
	ErrSocketClosed    = errors.New(1303, "the push channel is closed")
	ErrInvalidURL      = errors.Newf(1304, "could not build the push channel url from %s")
	ErrMaximumAttempts = errors.Newf(1305, "gave up connecting after %d attempts")
)
