package config

import (
	"errors"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

// Environment overrides applied on top of the globals file
const (
	EnvScratchOrgsEnabled       = "METADEPLOY_SCRATCH_ORGS_ENABLED"
	EnvPreflightLifetimeMinutes = "METADEPLOY_PREFLIGHT_LIFETIME_MINUTES"
	EnvSiteCompanyName          = "METADEPLOY_SITE_COMPANY_NAME"
)

// Keys of the globals document
const (
	keyScratchOrgsEnabled       = "scratch_orgs_enabled"
	keyPreflightLifetimeMinutes = "preflight_lifetime_minutes"
	keySiteCompanyName          = "site.company_name"
)

const defaultPreflightLifetimeMinutes = 10

// SiteConfig - branding of the site
type SiteConfig struct {
	CompanyName            string `yaml:"company_name"`
	WelcomeText            string `yaml:"welcome_text"`
	MasterAgreement        string `yaml:"master_agreement"`
	Copyright              string `yaml:"copyright_notice"`
	ProductLogo            string `yaml:"product_logo"`
	ShowMetadeployWordmark bool   `yaml:"show_metadeploy_wordmark"`
}

// Globals - values the site hands the client at startup
type Globals struct {
	Site                     *SiteConfig `yaml:"site"`
	ScratchOrgsEnabled       bool        `yaml:"scratch_orgs_enabled"`
	PreflightLifetimeMinutes int         `yaml:"preflight_lifetime_minutes"`
	User                     *model.User `yaml:"user"`
}

// NewGlobals - no branding, no scratch orgs, logged out
func NewGlobals() *Globals {
	return &Globals{PreflightLifetimeMinutes: defaultPreflightLifetimeMinutes}
}

// PreflightLifetime - how long a completed preflight allows an install
func (g *Globals) PreflightLifetime() time.Duration {
	return time.Duration(g.PreflightLifetimeMinutes) * time.Minute
}

// InitialUser - the user the site rendered the page for, absent when logged out
func (g *Globals) InitialUser() model.Lookup[*model.User] {
	if g.User == nil {
		return model.Missing[*model.User]()
	}
	return model.Found(g.User)
}

// CompanyName -
func (g *Globals) CompanyName() string {
	if g.Site == nil {
		return ""
	}
	return g.Site.CompanyName
}

// LoadGlobals - reads the globals file, after applying the env file, then
// applies the environment overrides. An empty path yields the defaults.
func LoadGlobals(path, envFile string) (*Globals, error) {
	if err := LoadEnvFromFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(keyPreflightLifetimeMinutes, defaultPreflightLifetimeMinutes)
	v.BindEnv(keyScratchOrgsEnabled, EnvScratchOrgsEnabled)
	v.BindEnv(keyPreflightLifetimeMinutes, EnvPreflightLifetimeMinutes)
	v.BindEnv(keySiteCompanyName, EnvSiteCompanyName)

	// nothing is read yet, so these values come from the environment or the defaults
	if raw := v.Get(keyScratchOrgsEnabled); raw != nil {
		if _, err := cast.ToBoolE(raw); err != nil {
			return nil, ErrInvalidEnvOverride.FormatError(EnvScratchOrgsEnabled, raw)
		}
	}
	if raw := v.Get(keyPreflightLifetimeMinutes); raw != nil {
		if _, err := cast.ToIntE(raw); err != nil {
			return nil, ErrInvalidEnvOverride.FormatError(EnvPreflightLifetimeMinutes, raw)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, ErrParsingGlobals.WithCause(err).FormatError(path)
			}
			return nil, ErrReadingGlobals.WithCause(err).FormatError(path)
		}
	}

	globals := NewGlobals()
	if err := v.Unmarshal(globals, func(c *mapstructure.DecoderConfig) { c.TagName = "yaml" }); err != nil {
		return nil, ErrParsingGlobals.WithCause(err).FormatError(path)
	}
	globals.ScratchOrgsEnabled = v.GetBool(keyScratchOrgsEnabled)
	globals.PreflightLifetimeMinutes = v.GetInt(keyPreflightLifetimeMinutes)
	if globals.PreflightLifetimeMinutes <= 0 {
		return nil, ErrBadConfig.FormatError(keyPreflightLifetimeMinutes)
	}
	return globals, nil
}
