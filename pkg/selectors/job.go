package selectors

import (
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

// JobStepState - progress of one step while a job runs
type JobStepState string

// JobStepState values
const (
	StepComplete   JobStepState = "complete"
	StepErrored    JobStepState = "errored"
	StepSkipped    JobStepState = "skipped"
	StepInstalling JobStepState = "installing"
	StepWaiting    JobStepState = "waiting"
)

// JobStep -
type JobStep struct {
	Step  model.Step
	State JobStepState
}

// JobSteps - the visible plan steps with their state in the job
func JobSteps(plan *model.Plan, job *model.Job) []JobStep {
	if plan == nil || job == nil {
		return nil
	}
	steps := make([]JobStep, 0, len(plan.Steps))
	installing := false
	for _, step := range plan.Steps {
		if job.Results.Has(step.ID, model.StepHide) {
			continue
		}
		state := jobStepState(job, step.ID)
		if state == StepWaiting && !installing && job.Status == model.StatusStarted && !job.Results.Recorded(step.ID) {
			state = StepInstalling
			installing = true
		}
		steps = append(steps, JobStep{Step: step, State: state})
	}
	return steps
}

func jobStepState(job *model.Job, stepID string) JobStepState {
	switch {
	case job.Results.Has(stepID, model.StepOK):
		return StepComplete
	case job.Results.Has(stepID, model.StepError):
		return StepErrored
	case !job.IncludesStep(stepID):
		return StepSkipped
	}
	return StepWaiting
}

// JobProgress - completed and total counts over the steps the job runs
func JobProgress(steps []JobStep) (done, total int) {
	for _, s := range steps {
		if s.State == StepSkipped {
			continue
		}
		total++
		if s.State == StepComplete || s.State == StepErrored {
			done++
		}
	}
	return done, total
}
