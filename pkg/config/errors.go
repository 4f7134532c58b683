package config

import "github.com/metadeploy/metadeploy-sdk/pkg/util/errors"

// Errors hit when validating or parsing config
var (
	ErrBadConfig          = errors.Newf(1000, "error with config %s, please set and/or check its value")
	ErrReadingGlobals     = errors.Newf(1001, "could not read the globals file %s")
	ErrParsingGlobals     = errors.Newf(1002, "could not parse the globals file %s")
	ErrReadingEnvFile     = errors.Newf(1003, "could not load the environment file %s")
	ErrInvalidEnvOverride = errors.Newf(1004, "environment variable %s has an invalid value %q")
)
