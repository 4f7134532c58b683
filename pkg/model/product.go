package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrgSupport - which kind of target org a plan can be installed into
type OrgSupport string

// OrgSupport values
const (
	SupportsPersistent OrgSupport = "Persistent"
	SupportsScratch    OrgSupport = "Scratch"
	SupportsBoth       OrgSupport = "Both"
)

// Product -
type Product struct {
	ID                     string                      `json:"id"`
	Slug                   string                      `json:"slug"`
	OldSlugs               []string                    `json:"old_slugs"`
	Title                  string                      `json:"title"`
	Description            string                      `json:"description"`
	Image                  string                      `json:"image"`
	Category               string                      `json:"category"`
	MostRecentVersion      *Version                    `json:"most_recent_version"`
	Versions               map[string]Lookup[*Version] `json:"versions,omitempty"`
	IsAllowed              bool                        `json:"is_allowed"`
	IsListed               bool                        `json:"is_listed"`
	NotAllowedInstructions string                      `json:"not_allowed_instructions"`
}

// HasSlug - true for the current slug or any historical one
func (p *Product) HasSlug(slug string) bool {
	return p.Slug == slug || contains(p.OldSlugs, slug)
}

// Version returns the version for a label, checking the most recent version first
func (p *Product) Version(label string) Lookup[*Version] {
	if p.MostRecentVersion != nil && p.MostRecentVersion.Label == label {
		return Found(p.MostRecentVersion)
	}
	return p.Versions[label]
}

// Version -
type Version struct {
	ID                     string                   `json:"id"`
	Product                string                   `json:"product"`
	Label                  string                   `json:"label"`
	Description            string                   `json:"description"`
	CreatedAt              time.Time                `json:"created_at"`
	IsListed               bool                     `json:"is_listed"`
	PrimaryPlan            *Plan                    `json:"primary_plan"`
	SecondaryPlan          *Plan                    `json:"secondary_plan"`
	AdditionalPlans        map[string]Lookup[*Plan] `json:"additional_plans,omitempty"`
	FetchedAdditionalPlans bool                     `json:"fetched_additional_plans"`
}

// Plan looks a plan up by current or historical slug
func (v *Version) Plan(slug string) Lookup[*Plan] {
	if v.PrimaryPlan != nil && v.PrimaryPlan.HasSlug(slug) {
		return Found(v.PrimaryPlan)
	}
	if v.SecondaryPlan != nil && v.SecondaryPlan.HasSlug(slug) {
		return Found(v.SecondaryPlan)
	}
	return v.AdditionalPlans[slug]
}

// Plan -
type Plan struct {
	ID                     string           `json:"id"`
	Slug                   string           `json:"slug"`
	OldSlugs               []string         `json:"old_slugs"`
	Title                  string           `json:"title"`
	Version                string           `json:"version"`
	PreflightMessage       string           `json:"preflight_message"`
	PostInstallMessage     string           `json:"post_install_message"`
	Steps                  []Step           `json:"steps"`
	IsAllowed              bool             `json:"is_allowed"`
	IsListed               bool             `json:"is_listed"`
	RequiresPreflight      bool             `json:"requires_preflight"`
	SupportedOrgs          OrgSupport       `json:"supported_orgs"`
	AverageDuration        *decimal.Decimal `json:"average_duration"`
	NotAllowedInstructions string           `json:"not_allowed_instructions"`
}

// HasSlug - true for the current slug or any historical one
func (p *Plan) HasSlug(slug string) bool {
	return p.Slug == slug || contains(p.OldSlugs, slug)
}

// Slugs - the current slug followed by the historical ones
func (p *Plan) Slugs() []string {
	return append([]string{p.Slug}, p.OldSlugs...)
}

// IsRestricted - the server withheld the step list (null steps)
func (p *Plan) IsRestricted() bool {
	return p.Steps == nil
}

// SupportsScratchOrgs -
func (p *Plan) SupportsScratchOrgs() bool {
	return p.SupportedOrgs == SupportsScratch || p.SupportedOrgs == SupportsBoth
}

// SupportsPersistentOrgs - plans without an explicit mode install into persistent orgs
func (p *Plan) SupportsPersistentOrgs() bool {
	return p.SupportedOrgs == "" || p.SupportedOrgs == SupportsPersistent || p.SupportedOrgs == SupportsBoth
}

// EstimatedDuration - the average duration, when the server has one
func (p *Plan) EstimatedDuration() (time.Duration, bool) {
	if p.AverageDuration == nil {
		return 0, false
	}
	ms := p.AverageDuration.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	return time.Duration(ms) * time.Millisecond, true
}

// Step -
type Step struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Kind          string `json:"kind"`
	KindIcon      string `json:"kind_icon"`
	IsRequired    bool   `json:"is_required"`
	IsRecommended bool   `json:"is_recommended"`
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
