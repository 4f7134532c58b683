package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/metadeploy/metadeploy-sdk/pkg/actions"
	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/selectors"
	"github.com/metadeploy/metadeploy-sdk/pkg/store"
)

type installOptions struct {
	skip    []string
	include []string
	wait    time.Duration
}

func (c *rootCommand) newInstallCmd() *cobra.Command {
	opts := &installOptions{}
	cmd := &cobra.Command{
		Use:   "install <product> <version> <plan>",
		Short: "Validate the plan if required, install the selected steps and follow the job",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInstall(cmd, args, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.skip, "skip", nil, "Ids of recommended or optional steps to leave out")
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "Ids of optional steps to run")
	cmd.Flags().DurationVar(&opts.wait, "wait", time.Hour, "How long to wait for validation and installation")
	return cmd
}

func (o *installOptions) toggles() selectors.Toggles {
	toggles := selectors.Toggles{}
	for _, id := range o.include {
		toggles = toggles.With(id, true)
	}
	for _, id := range o.skip {
		toggles = toggles.With(id, false)
	}
	return toggles
}

func (c *rootCommand) runInstall(cmd *cobra.Command, args []string, opts *installOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.wait)
	defer cancel()

	session, err := c.startSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	route := selectors.Route{ProductSlug: args[0], VersionLabel: args[1], PlanSlug: args[2]}
	plan, err := loadRoute(ctx, session, route)
	if err != nil {
		return err
	}

	i := &installer{
		session: session,
		plan:    plan,
		toggles: opts.toggles(),
		cmd:     cmd,
		route:   route,
		opts: selectors.CTAOptions{
			PreflightLifetime: c.globals.PreflightLifetime(),
		},
	}
	return i.run(ctx)
}

// installer walks the call to action until a job ends
type installer struct {
	session      *Session
	plan         *model.Plan
	toggles      selectors.Toggles
	cmd          *cobra.Command
	route        selectors.Route
	opts         selectors.CTAOptions
	ranPreflight bool
}

func (i *installer) run(ctx context.Context) error {
	out := i.cmd.OutOrStdout()
	for {
		state := i.session.Store.State()
		preflight := selectors.SelectPreflight(state, i.plan)
		opts := i.opts
		opts.Selected = selectors.SelectedSteps(i.plan, preflight, i.toggles)
		next := selectors.CTA(state, i.plan, opts)

		switch next.Kind {
		case selectors.CTANotAllowed:
			return ErrNotAllowed.FormatError(i.plan.Slug)
		case selectors.CTALogIn:
			return ErrLoginRequired
		case selectors.CTAInstallDisabled:
			return ErrNothingSelected
		case selectors.CTALoading:
			if err := i.waitForChange(ctx, selectors.CTALoading); err != nil {
				return err
			}
		case selectors.CTAViewRunningJob:
			fmt.Fprintf(out, "A job is already running in the org: %s\n", i.route.WithJob(next.JobID).Path())
			if err := i.session.Actions.FetchJob(ctx, next.JobID, "", "", ""); err != nil {
				return err
			}
			return followJob(ctx, i.session, i.plan, next.JobID, out)
		case selectors.CTAStartPreflight, selectors.CTAReRunPreflight:
			if i.ranPreflight {
				pf, ok := preflight.Get()
				if !ok {
					return ErrRouteNotFound.FormatError("pre-install validation of " + i.plan.Slug)
				}
				printPlan(out, i.plan, preflight, i.toggles)
				return ErrPreflightFailed.FormatError(pf.Status, pf.ErrorCount)
			}
			fmt.Fprintln(out, "Starting pre-install validation")
			if _, err := i.session.Actions.StartPreflight(ctx, i.plan.ID); err != nil {
				return err
			}
			i.ranPreflight = true
			if err := i.waitForPreflight(ctx); err != nil {
				return err
			}
		case selectors.CTAPreflightInProgress:
			i.ranPreflight = true
			if err := i.waitForPreflight(ctx); err != nil {
				return err
			}
		case selectors.CTAInstall:
			printPlan(out, i.plan, preflight, i.toggles)
			job, err := i.session.Actions.StartJob(ctx, actions.JobRequest{Plan: i.plan.ID, Steps: opts.Selected})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Installing: %s\n", i.route.WithJob(job.ID).Path())
			return followJob(ctx, i.session, i.plan, job.ID, out)
		}
	}
}

func (i *installer) waitForPreflight(ctx context.Context) error {
	_, err := waitFor(ctx, i.session.Store, nil, func(state store.State) bool {
		if pf, ok := selectors.SelectPreflight(state, i.plan).Get(); ok {
			return pf.Status.IsTerminal()
		}
		// an org with no preflight running has nothing to wait for
		return selectors.CurrentPreflightID(selectors.SelectOrg(state, i.plan)) == ""
	})
	return err
}

func (i *installer) waitForChange(ctx context.Context, from selectors.CTAKind) error {
	_, err := waitFor(ctx, i.session.Store, nil, func(state store.State) bool {
		return selectors.CTA(state, i.plan, i.opts).Kind != from
	})
	return err
}

// followJob prints step progress until the job ends
func followJob(ctx context.Context, session *Session, plan *model.Plan, jobID string, out io.Writer) error {
	printer := newJobPrinter(out)
	state, err := waitFor(ctx, session.Store,
		func(state store.State) {
			if job, ok := selectors.SelectJob(state, jobID).Get(); ok {
				printer.print(plan, job)
			}
		},
		func(state store.State) bool {
			lookup := selectors.SelectJob(state, jobID)
			if lookup.IsAbsent() {
				return true
			}
			job, ok := lookup.Get()
			return ok && job.Status.IsTerminal()
		},
	)
	if err != nil {
		return err
	}
	job, ok := selectors.SelectJob(state, jobID).Get()
	if !ok {
		return ErrRouteNotFound.FormatError("job " + jobID)
	}
	if job.Status != model.StatusComplete {
		return ErrJobFailed.FormatError(job.Status, job.ErrorMessage)
	}
	fmt.Fprintln(out, "Installation complete")
	return nil
}
