package useragent

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
)

var userAgentRe = regexp.MustCompile(`^([a-zA-Z0-9._-]+)/([a-zA-Z0-9.+-]+) \(os:([a-z0-9]*); arch:([a-z0-9]*); hostname:([a-zA-Z0-9._-]*)\)$`)

// UserAgent - what the client tells the site about itself
type UserAgent struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	OS       string `json:"os,omitempty"`
	Arch     string `json:"arch,omitempty"`
	HostName string `json:"hostname,omitempty"`
}

// New - a user agent for this host
func New(name, version string) *UserAgent {
	hostName, _ := os.Hostname()
	return &UserAgent{
		Name:     name,
		Version:  version,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		HostName: hostName,
	}
}

// Format - the header value, the bare name when no version is known
func (ua *UserAgent) Format() string {
	if ua.Version == "" {
		return ua.Name
	}
	return fmt.Sprintf("%s/%s (os:%s; arch:%s; hostname:%s)", ua.Name, ua.Version, ua.OS, ua.Arch, ua.HostName)
}

// Parse - reads back a header written by Format, nil for anything else
func Parse(userAgent string) *UserAgent {
	matches := userAgentRe.FindStringSubmatch(userAgent)
	if len(matches) != 6 {
		return nil
	}
	return &UserAgent{
		Name:     matches[1],
		Version:  matches[2],
		OS:       matches[3],
		Arch:     matches[4],
		HostName: matches[5],
	}
}
