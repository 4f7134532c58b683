package store

import (
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

func reduceProducts(s ProductsState, action Action) ProductsState {
	switch a := action.(type) {
	case ProductsFetched:
		items := make([]*model.Product, 0, len(a.Products))
		for _, p := range a.Products {
			items = append(items, mergeProduct(s.ByID(p.ID), p))
		}
		// products fetched individually but missing from the list stay known
		for _, known := range s.Items {
			if !containsProduct(items, known.ID) {
				items = append(items, known)
			}
		}
		return ProductsState{Fetched: true, Items: items, NotFound: s.NotFound}
	case ProductFetched:
		if a.Product == nil {
			if containsString(s.NotFound, a.Slug) {
				return s
			}
			notFound := append(append([]string{}, s.NotFound...), a.Slug)
			return ProductsState{Fetched: s.Fetched, Items: s.Items, NotFound: notFound}
		}
		return s.upsert(mergeProduct(s.ByID(a.Product.ID), a.Product))
	case VersionFetched:
		product := s.ByID(a.ProductID)
		if product == nil {
			return s
		}
		updated := cloneProduct(product)
		if a.Version == nil {
			updated.Versions[a.Label] = model.Missing[*model.Version]()
		} else {
			var previous *model.Version
			if known, ok := product.Versions[a.Label].Get(); ok {
				previous = known
			}
			updated.Versions[a.Label] = model.Found(mergeVersion(previous, a.Version))
		}
		return s.upsert(updated)
	case PlanFetched:
		return s.updateVersion(a.ProductID, a.VersionID, func(v *model.Version) {
			if a.Plan == nil {
				v.AdditionalPlans[a.Slug] = model.Missing[*model.Plan]()
				return
			}
			storePlan(v, a.Plan)
		})
	case AdditionalPlansFetched:
		return s.updateVersion(a.ProductID, a.VersionID, func(v *model.Version) {
			for _, plan := range a.Plans {
				storePlan(v, plan)
			}
			v.FetchedAdditionalPlans = true
		})
	}
	return s
}

// storePlan keys the plan under every slug it is known by
func storePlan(v *model.Version, plan *model.Plan) {
	for _, slug := range plan.Slugs() {
		v.AdditionalPlans[slug] = model.Found(plan)
	}
}

func (s ProductsState) upsert(product *model.Product) ProductsState {
	items := make([]*model.Product, 0, len(s.Items)+1)
	replaced := false
	for _, p := range s.Items {
		if p.ID == product.ID {
			items = append(items, product)
			replaced = true
			continue
		}
		items = append(items, p)
	}
	if !replaced {
		items = append(items, product)
	}
	return ProductsState{Fetched: s.Fetched, Items: items, NotFound: s.NotFound}
}

// updateVersion applies fn to a copy of the version, wherever the product holds it
func (s ProductsState) updateVersion(productID, versionID string, fn func(*model.Version)) ProductsState {
	product := s.ByID(productID)
	if product == nil {
		return s
	}
	updated := cloneProduct(product)
	found := false
	if mrv := product.MostRecentVersion; mrv != nil && mrv.ID == versionID {
		v := cloneVersion(mrv)
		fn(v)
		updated.MostRecentVersion = v
		found = true
	}
	for label, lookup := range product.Versions {
		if v, ok := lookup.Get(); ok && v.ID == versionID {
			v = cloneVersion(v)
			fn(v)
			updated.Versions[label] = model.Found(v)
			found = true
		}
	}
	if !found {
		return s
	}
	return s.upsert(updated)
}

// mergeProduct keeps version lookups already known for the product
func mergeProduct(previous, next *model.Product) *model.Product {
	merged := cloneProduct(next)
	if previous != nil {
		for label, lookup := range previous.Versions {
			if _, ok := merged.Versions[label]; !ok {
				merged.Versions[label] = lookup
			}
		}
		if previous.MostRecentVersion != nil && merged.MostRecentVersion != nil &&
			previous.MostRecentVersion.ID == merged.MostRecentVersion.ID {
			merged.MostRecentVersion = mergeVersion(previous.MostRecentVersion, merged.MostRecentVersion)
		}
	}
	return merged
}

// mergeVersion keeps plan lookups already known for the version
func mergeVersion(previous, next *model.Version) *model.Version {
	merged := cloneVersion(next)
	if previous != nil && previous.ID == next.ID {
		for slug, lookup := range previous.AdditionalPlans {
			if _, ok := merged.AdditionalPlans[slug]; !ok {
				merged.AdditionalPlans[slug] = lookup
			}
		}
		merged.FetchedAdditionalPlans = merged.FetchedAdditionalPlans || previous.FetchedAdditionalPlans
	}
	return merged
}

func cloneProduct(p *model.Product) *model.Product {
	c := *p
	c.Versions = copyMap(p.Versions)
	return &c
}

func cloneVersion(v *model.Version) *model.Version {
	c := *v
	c.AdditionalPlans = copyMap(v.AdditionalPlans)
	return &c
}

func containsProduct(items []*model.Product, id string) bool {
	for _, p := range items {
		if p.ID == id {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
