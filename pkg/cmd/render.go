package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/selectors"
)

func printPlan(w io.Writer, plan *model.Plan, preflight model.Lookup[*model.Preflight], toggles selectors.Toggles) {
	fmt.Fprintf(w, "%s (%s)\n", plan.Title, plan.Slug)
	if d, ok := plan.EstimatedDuration(); ok {
		fmt.Fprintf(w, "Estimated duration: %s\n", d)
	}
	if plan.IsRestricted() {
		fmt.Fprintln(w, "Steps are restricted for this user.")
		return
	}

	selected := map[string]bool{}
	for _, id := range selectors.SelectedSteps(plan, preflight, toggles) {
		selected[id] = true
	}
	var results model.Results
	if pf, ok := preflight.Get(); ok {
		results = pf.Results
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tSTEP\tKIND\tREQUIREMENT\tMESSAGE")
	for _, step := range selectors.VisibleSteps(plan, preflight) {
		mark := "[ ]"
		if selected[step.ID] {
			mark = "[x]"
		}
		message := ""
		if msg, ok := selectors.StepMessageFor(results, step.ID); ok {
			message = fmt.Sprintf("%s: %s", msg.Status, msg.Message)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, step.Name, step.Kind, requirement(selectors.ClassifyStep(step, results)), message)
	}
	tw.Flush()

	for _, msg := range selectors.PlanMessages(results) {
		fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(msg.Status)), msg.Message)
	}
}

func requirement(flags selectors.StepFlags) string {
	switch {
	case flags.Skipped:
		return "skipped"
	case flags.Required:
		return "required"
	case flags.Recommended:
		return "recommended"
	}
	return "optional"
}

// jobPrinter prints each step state change once
type jobPrinter struct {
	w    io.Writer
	seen map[string]selectors.JobStepState
}

func newJobPrinter(w io.Writer) *jobPrinter {
	return &jobPrinter{w: w, seen: map[string]selectors.JobStepState{}}
}

func (p *jobPrinter) print(plan *model.Plan, job *model.Job) {
	steps := selectors.JobSteps(plan, job)
	done, total := selectors.JobProgress(steps)
	for _, s := range steps {
		if p.seen[s.Step.ID] == s.State {
			continue
		}
		p.seen[s.Step.ID] = s.State
		if s.State == selectors.StepWaiting {
			continue
		}
		fmt.Fprintf(p.w, "[%d/%d] %-10s %s\n", done, total, s.State, s.Step.Name)
	}
}
