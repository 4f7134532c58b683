package cmd

import "fmt"

// BuildTime -
var BuildTime string

// BuildVersion -
var BuildVersion string

// BuildCommitSha -
var BuildCommitSha string

// versionString - version and commit stamped at build time
func versionString() string {
	version := BuildVersion
	if version == "" {
		version = "dev"
	}
	if BuildCommitSha == "" {
		return version
	}
	return fmt.Sprintf("%s-%s", version, BuildCommitSha)
}
