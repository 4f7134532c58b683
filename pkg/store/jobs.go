package store

import (
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

func reduceJobs(s map[string]model.Lookup[*model.Job], action Action) map[string]model.Lookup[*model.Job] {
	switch a := action.(type) {
	case JobFetched:
		if a.Job == nil {
			if current, ok := s[a.JobID].Get(); ok && !sentAfter(a.RequestedAt, current.EditedAt) {
				return s
			}
			return withLookup(s, a.JobID, model.Missing[*model.Job]())
		}
		return mergeJob(s, a.Job)
	case JobStarted:
		return mergeJob(s, a.Job)
	case JobStepCompleted:
		return mergeJob(s, a.Job)
	case JobCompleted:
		return mergeJob(s, a.Job)
	case JobFailed:
		return mergeJob(s, a.Job)
	case JobCanceled:
		return mergeJob(s, a.Job)
	case JobUpdated:
		return mergeJob(s, a.Job)
	case UserLoggedOut:
		return map[string]model.Lookup[*model.Job]{}
	}
	return s
}

// mergeJob - last write wins by edit time
func mergeJob(s map[string]model.Lookup[*model.Job], job *model.Job) map[string]model.Lookup[*model.Job] {
	if job == nil {
		return s
	}
	if current, ok := s[job.ID].Get(); ok && !job.NewerThan(current) {
		return s
	}
	return withLookup(s, job.ID, model.Found(job))
}
