package selectors

import (
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
)

// StepFlags - how a preflight result set classifies one step
type StepFlags struct {
	Hidden      bool
	Skipped     bool
	Optional    bool
	Required    bool
	Recommended bool
}

// ClassifyStep applies the results recorded for the step to its static flags.
// An optional result downgrades a required step.
func ClassifyStep(step model.Step, results model.Results) StepFlags {
	flags := StepFlags{
		Hidden:   results.Has(step.ID, model.StepHide),
		Skipped:  results.Has(step.ID, model.StepSkip),
		Optional: results.Has(step.ID, model.StepOptional),
	}
	flags.Required = step.IsRequired && !flags.Optional
	flags.Recommended = !flags.Required && step.IsRecommended
	return flags
}

// Toggles - explicit user choices per step id, the latest choice wins
type Toggles map[string]bool

// With - a copy of the toggles with one more choice recorded
func (t Toggles) With(stepID string, selected bool) Toggles {
	out := make(Toggles, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[stepID] = selected
	return out
}

// VisibleSteps - the plan's steps in order, minus those with a hide result
func VisibleSteps(plan *model.Plan, preflight model.Lookup[*model.Preflight]) []model.Step {
	if plan == nil {
		return nil
	}
	results := resultsOf(preflight)
	visible := make([]model.Step, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		if results.Has(step.ID, model.StepHide) {
			continue
		}
		visible = append(visible, step)
	}
	return visible
}

// SelectedSteps - the step ids, in plan order, to send when starting a job.
// Hidden and skipped steps are never selected; otherwise a toggle wins over
// the required and recommended defaults.
func SelectedSteps(plan *model.Plan, preflight model.Lookup[*model.Preflight], toggles Toggles) []string {
	if plan == nil {
		return nil
	}
	results := resultsOf(preflight)
	selected := make([]string, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		flags := ClassifyStep(step, results)
		if flags.Hidden || flags.Skipped {
			continue
		}
		include := flags.Required || flags.Recommended
		if choice, ok := toggles[step.ID]; ok {
			include = choice
		}
		if include {
			selected = append(selected, step.ID)
		}
	}
	return selected
}

// CanToggle - required, hidden and skipped steps cannot be changed by the user
func CanToggle(step model.Step, preflight model.Lookup[*model.Preflight]) bool {
	flags := ClassifyStep(step, resultsOf(preflight))
	return !flags.Required && !flags.Hidden && !flags.Skipped
}

// StepMessage - the message to show next to a step
type StepMessage struct {
	Status  model.StepStatus
	Message string
}

// StepMessageFor picks the message for a step: an error beats a warning, which
// beats any other status carrying a message.
func StepMessageFor(results model.Results, stepID string) (StepMessage, bool) {
	var warn, other *model.StepResult
	for i := range results[stepID] {
		res := &results[stepID][i]
		if res.Message == "" {
			continue
		}
		switch res.Status {
		case model.StepError:
			return StepMessage{Status: res.Status, Message: res.Message}, true
		case model.StepWarn:
			if warn == nil {
				warn = res
			}
		default:
			if other == nil {
				other = res
			}
		}
	}
	if warn != nil {
		return StepMessage{Status: warn.Status, Message: warn.Message}, true
	}
	if other != nil {
		return StepMessage{Status: other.Status, Message: other.Message}, true
	}
	return StepMessage{}, false
}

// StepMessages - the message of every step that has one, plan level messages included
func StepMessages(results model.Results) map[string]StepMessage {
	messages := make(map[string]StepMessage)
	for stepID := range results {
		if msg, ok := StepMessageFor(results, stepID); ok {
			messages[stepID] = msg
		}
	}
	return messages
}

// PlanMessages - plan level messages, errors first
func PlanMessages(results model.Results) []StepMessage {
	var errs, rest []StepMessage
	for _, res := range results[model.PlanResultKey] {
		if res.Message == "" {
			continue
		}
		msg := StepMessage{Status: res.Status, Message: res.Message}
		if res.Status == model.StepError {
			errs = append(errs, msg)
			continue
		}
		rest = append(rest, msg)
	}
	return append(errs, rest...)
}

func resultsOf(preflight model.Lookup[*model.Preflight]) model.Results {
	if p, ok := preflight.Get(); ok {
		return p.Results
	}
	return nil
}
