package actions

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// FetchProducts - the listed products
func (a *Actions) FetchProducts(ctx context.Context) error {
	var products []*model.Product
	if err := a.fetchList(ctx, api.ProductsPath, "product", &products); err != nil {
		return err
	}
	return a.store.Dispatch(store.ProductsFetched{Products: products})
}

// FetchProduct - a product by slug, absent when the server does not know it
func (a *Actions) FetchProduct(ctx context.Context, slug string) error {
	product := &model.Product{}
	found, err := a.fetcher.Get(ctx, api.ProductPath, product, api.AllowNotFound(), api.WithQuery(map[string]string{"slug": slug}))
	if err != nil {
		return err
	}
	if !found {
		product = nil
	}
	return a.store.Dispatch(store.ProductFetched{Slug: slug, Product: product})
}

// FetchVersion - a version of a known product by label
func (a *Actions) FetchVersion(ctx context.Context, productID, label string) error {
	version := &model.Version{}
	found, err := a.fetcher.Get(ctx, api.VersionPath, version, api.AllowNotFound(), api.WithQuery(map[string]string{
		"product": productID,
		"label":   label,
	}))
	if err != nil {
		return err
	}
	if !found {
		version = nil
	}
	return a.store.Dispatch(store.VersionFetched{ProductID: productID, Label: label, Version: version})
}

// FetchPlan - a plan of a known version by current or old slug
func (a *Actions) FetchPlan(ctx context.Context, productID, versionID, slug string) error {
	plan := &model.Plan{}
	found, err := a.fetcher.Get(ctx, api.PlanPath, plan, api.AllowNotFound(), api.WithQuery(map[string]string{
		"version": versionID,
		"slug":    slug,
	}))
	if err != nil {
		return err
	}
	if !found {
		plan = nil
	}
	return a.store.Dispatch(store.PlanFetched{ProductID: productID, VersionID: versionID, Slug: slug, Plan: plan})
}

// FetchAdditionalPlans - the plans of a version besides the primary and secondary
func (a *Actions) FetchAdditionalPlans(ctx context.Context, productID, versionID string) error {
	var plans []*model.Plan
	if err := a.fetchList(ctx, api.AdditionalPlansPath(versionID), "plan", &plans); err != nil {
		return err
	}
	return a.store.Dispatch(store.AdditionalPlansFetched{ProductID: productID, VersionID: versionID, Plans: plans})
}

// fetchList accepts a bare array or a paginated {"results": [...]} body
func (a *Actions) fetchList(ctx context.Context, path, kind string, out interface{}) error {
	var raw json.RawMessage
	if _, err := a.fetcher.Get(ctx, path, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	body := raw
	if results := gjson.GetBytes(raw, "results"); results.IsArray() {
		body = json.RawMessage(results.Raw)
	}
	if err := json.Unmarshal(body, out); err != nil {
		a.surfaceError(err.Error())
		return ErrDecodeList.WithCause(err).FormatError(kind)
	}
	return nil
}
