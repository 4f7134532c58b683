package actions

import (
	"context"
	"time"

	"github.com/metadeploy/metadeploy-sdk/pkg/api"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/socket"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

// JobRequest - what a new job runs
type JobRequest struct {
	Plan  string   `json:"plan"`
	Steps []string `json:"steps"`
	// OrgID targets a scratch org, empty installs into the user's org
	OrgID string `json:"org_id,omitempty"`
}

type jobUpdate struct {
	IsPublic bool `json:"is_public"`
}

// FetchJob - a job by id. A job of another product, version or plan than the
// one addressed is reported absent.
func (a *Actions) FetchJob(ctx context.Context, jobID, productSlug, versionLabel, planSlug string) error {
	job := &model.Job{}
	requestedAt := time.Now()
	found, err := a.fetcher.Get(ctx, api.JobPath(jobID), job, api.AllowNotFound())
	if err != nil {
		return err
	}
	if !found || !jobMatches(job, productSlug, versionLabel, planSlug) {
		job = nil
	}
	if err := a.store.Dispatch(store.JobFetched{JobID: jobID, Job: job, RequestedAt: requestedAt}); err != nil {
		return err
	}
	if job != nil {
		a.subscribe(socket.ModelJob, job.ID, "")
	}
	return nil
}

func jobMatches(job *model.Job, productSlug, versionLabel, planSlug string) bool {
	return (productSlug == "" || job.ProductSlug == "" || job.ProductSlug == productSlug) &&
		(versionLabel == "" || job.VersionLabel == "" || job.VersionLabel == versionLabel) &&
		(planSlug == "" || job.PlanSlug == "" || job.PlanSlug == planSlug)
}

// StartJob - installs the selected steps
func (a *Actions) StartJob(ctx context.Context, req JobRequest) (*model.Job, error) {
	if req.Steps == nil {
		req.Steps = []string{}
	}
	job := &model.Job{}
	if _, err := a.fetcher.Post(ctx, api.JobsPath, req, job); err != nil {
		return nil, err
	}
	if err := a.store.Dispatch(store.JobStarted{Job: job}); err != nil {
		return nil, err
	}
	a.subscribe(socket.ModelJob, job.ID, "")
	return job, nil
}

// UpdateJob - changes whether the job can be viewed by anyone with the link
func (a *Actions) UpdateJob(ctx context.Context, jobID string, isPublic bool) (*model.Job, error) {
	job := &model.Job{}
	if _, err := a.fetcher.Patch(ctx, api.JobPath(jobID), jobUpdate{IsPublic: isPublic}, job); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, nil
	}
	if err := a.store.Dispatch(store.JobUpdated{Job: job}); err != nil {
		return nil, err
	}
	return job, nil
}

// CancelJob - asks the server to cancel, the push channel reports the outcome
func (a *Actions) CancelJob(ctx context.Context, jobID string) error {
	_, err := a.fetcher.Delete(ctx, api.JobPath(jobID))
	return err
}
