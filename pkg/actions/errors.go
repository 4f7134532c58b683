package actions

import "github.com/metadeploy/metadeploy-sdk/pkg/util/errors"

// Errors hit by the actions service
var (
	ErrScratchOrgsDisabled = errors.New(1400, "scratch orgs are not enabled on this site")
	ErrDecodeList          = errors.Newf(1401, "could not decode the %s list")
	ErrResync              = errors.New(1402, "could not resync after reconnecting")
)
