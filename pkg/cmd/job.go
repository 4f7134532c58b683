package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metadeploy/metadeploy-sdk/pkg/selectors"
)

func (c *rootCommand) newJobCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job <product> <version> <plan> <job-id>",
		Short: "Follow a job until it ends",
		Args:  cobra.ExactArgs(4),
		RunE:  c.runJob,
	}
}

func (c *rootCommand) runJob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	session, err := c.startSession(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	route := selectors.Route{ProductSlug: args[0], VersionLabel: args[1], PlanSlug: args[2], JobID: args[3]}
	plan, err := loadRoute(ctx, session, route)
	if err != nil {
		return err
	}
	job, ok := selectors.SelectJob(session.Store.State(), route.JobID).Get()
	if !ok {
		return ErrRouteNotFound.FormatError(route.Path())
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", plan.Title, job.Status)
	if job.IsPublic {
		fmt.Fprintf(out, "Shared at %s\n", route.Path())
	}
	return followJob(ctx, session, plan, job.ID, out)
}
