package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metadeploy/metadeploy-sdk/pkg/model"
	"github.com/metadeploy/metadeploy-sdk/pkg/selectors"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

func (c *rootCommand) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <product> <version> <plan>",
		Short: "Show the steps of a plan, which are selected and what can be done next",
		Args:  cobra.ExactArgs(3),
		RunE:  c.runPlan,
	}
}

func (c *rootCommand) runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
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

	state := session.Store.State()
	preflight := selectors.SelectPreflight(state, plan)
	out := cmd.OutOrStdout()
	printPlan(out, plan, preflight, nil)

	next := selectors.CTA(state, plan, selectors.CTAOptions{
		PreflightLifetime: c.globals.PreflightLifetime(),
		Selected:          selectors.SelectedSteps(plan, preflight, nil),
	})
	fmt.Fprintf(out, "Next: %s\n", next.Label)
	if next.Kind == selectors.CTAViewRunningJob {
		fmt.Fprintf(out, "Running job: %s\n", route.WithJob(next.JobID).Path())
	}
	return nil
}

// loadRoute fetches what the route needs and returns its plan
func loadRoute(ctx context.Context, session *Session, route selectors.Route) (*model.Plan, error) {
	if err := session.Actions.EnsureRoute(ctx, route); err != nil {
		return nil, err
	}
	state := session.Store.State()
	res := selectors.LoadingOrNotFound(state, route)
	switch res.Status {
	case selectors.NotFound:
		return nil, ErrRouteNotFound.FormatError(route.Path())
	case selectors.Redirect:
		log.Infof("%s moved to %s", route.Path(), res.Redirect)
	}
	plan, ok := selectors.SelectPlan(state, route).Get()
	if !ok {
		return nil, ErrRouteNotFound.FormatError(route.Path())
	}
	return plan, nil
}
