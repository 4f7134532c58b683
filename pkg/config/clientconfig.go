package config

import (
	"net/url"
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/cmd/properties"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/exception"
)

// ClientConfig - settings used to reach a MetaDeploy site
type ClientConfig interface {
	GetURL() string
	GetTimeout() time.Duration
	GetUserAgent() string
	GetSession() string
	GetGlobalsFile() string
	GetEnvFile() string
	GetSocketConfig() SocketConfig
	ValidateCfg() error
}

// ClientConfiguration -
type ClientConfiguration struct {
	URL         string              `config:"url"`
	Timeout     time.Duration       `config:"timeout"`
	UserAgent   string              `config:"userAgent"`
	Session     string              `config:"session"`
	GlobalsFile string              `config:"globals"`
	EnvFile     string              `config:"envFile"`
	Socket      SocketConfiguration `config:"socket"`
}

// NewClientConfig - a client config holding the defaults
func NewClientConfig() *ClientConfiguration {
	return &ClientConfiguration{
		Timeout:   60 * time.Second,
		UserAgent: "metadeploy-sdk",
		Socket:    *NewSocketConfig(),
	}
}

// GetURL - the site root, API and push channel paths are resolved against it
func (c *ClientConfiguration) GetURL() string {
	return c.URL
}

// GetTimeout -
func (c *ClientConfiguration) GetTimeout() time.Duration {
	return c.Timeout
}

// GetUserAgent -
func (c *ClientConfiguration) GetUserAgent() string {
	return c.UserAgent
}

// GetSession - the session cookie of a logged in browser, empty for anonymous use
func (c *ClientConfiguration) GetSession() string {
	return c.Session
}

// GetGlobalsFile -
func (c *ClientConfiguration) GetGlobalsFile() string {
	return c.GlobalsFile
}

// GetEnvFile -
func (c *ClientConfiguration) GetEnvFile() string {
	return c.EnvFile
}

// GetSocketConfig -
func (c *ClientConfiguration) GetSocketConfig() SocketConfig {
	return &c.Socket
}

// ValidateCfg - validates the client and socket config
func (c *ClientConfiguration) ValidateCfg() (err error) {
	exception.Block{
		Try: func() {
			c.validate()
			c.Socket.validate()
		},
		Catch: func(e error) {
			err = e
		},
	}.Do()

	return
}

func (c *ClientConfiguration) validate() {
	if c.URL == "" {
		exception.Throw(ErrBadConfig.FormatError(pathURL))
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		exception.Throw(ErrBadConfig.FormatError(pathURL))
	}
	if c.Timeout <= 0 {
		exception.Throw(ErrBadConfig.FormatError(pathTimeout))
	}
}

const (
	pathURL         = "metadeploy.url"
	pathTimeout     = "metadeploy.timeout"
	pathUserAgent   = "metadeploy.userAgent"
	pathSession     = "metadeploy.session"
	pathGlobalsFile = "metadeploy.globals"
	pathEnvFile     = "metadeploy.envFile"
)

// AddClientConfigProperties - Adds the command properties needed for the client config
func AddClientConfigProperties(props properties.Properties) {
	props.AddStringProperty(pathURL, "", "Root URL of the MetaDeploy site")
	props.AddDurationProperty(pathTimeout, 60*time.Second, "Timeout of each API request")
	props.AddStringProperty(pathUserAgent, "metadeploy-sdk", "User agent sent with each request")
	props.AddStringProperty(pathSession, "", "Session cookie of a logged in user")
	props.AddStringProperty(pathGlobalsFile, "", "YAML file holding the site globals")
	props.AddStringProperty(pathEnvFile, "", "Environment file applied before the globals are read")
	AddSocketConfigProperties(props)
}

// ParseClientConfig - Parses the client config values from the command line and config file
func ParseClientConfig(props properties.Properties) (ClientConfig, error) {
	cfg := &ClientConfiguration{
		URL:         props.StringPropertyValue(pathURL),
		Timeout:     props.DurationPropertyValue(pathTimeout),
		UserAgent:   props.StringPropertyValue(pathUserAgent),
		Session:     props.StringPropertyValue(pathSession),
		GlobalsFile: props.StringPropertyValue(pathGlobalsFile),
		EnvFile:     props.StringPropertyValue(pathEnvFile),
		Socket:      *ParseSocketConfig(props),
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
