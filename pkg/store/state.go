package store

import (
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

// State - the full client state. Maps held by a published State are never
// written again; reducers copy before changing them.
type State struct {
	Products    ProductsState
	Preflights  map[string]model.Lookup[*model.Preflight]
	Jobs        map[string]model.Lookup[*model.Job]
	ScratchOrgs map[string]model.Lookup[*model.ScratchOrg]
	User        model.Lookup[*model.User]
	Orgs        OrgsState
	Errors      []ErrorEntry
	Socket      SocketState
}

// ProductsState - products in server order plus slugs confirmed absent
type ProductsState struct {
	Fetched  bool
	Items    []*model.Product
	NotFound []string
}

// BySlug finds a product by current or historical slug
func (p ProductsState) BySlug(slug string) model.Lookup[*model.Product] {
	for _, product := range p.Items {
		if product.HasSlug(slug) {
			return model.Found(product)
		}
	}
	for _, s := range p.NotFound {
		if s == slug {
			return model.Missing[*model.Product]()
		}
	}
	return model.Lookup[*model.Product]{}
}

// ByID -
func (p ProductsState) ByID(id string) *model.Product {
	for _, product := range p.Items {
		if product.ID == id {
			return product
		}
	}
	return nil
}

// OrgsState - status of every org the user can target
type OrgsState struct {
	Fetched bool
	Items   map[string]*model.Org
}

// ErrorEntry - a transient error notification
type ErrorEntry struct {
	ID      string
	Message string
	At      time.Time
}

// SocketState -
type SocketState struct {
	Connected bool
}

// NewState - the empty state
func NewState() State {
	return State{
		Preflights:  map[string]model.Lookup[*model.Preflight]{},
		Jobs:        map[string]model.Lookup[*model.Job]{},
		ScratchOrgs: map[string]model.Lookup[*model.ScratchOrg]{},
		Orgs:        OrgsState{Items: map[string]*model.Org{}},
	}
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
