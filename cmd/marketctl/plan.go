package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"companions/internal/domain"
	"companions/internal/entitlement"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Override listing plans",
	}
	cmd.AddCommand(planSetCmd())
	return cmd
}

// planOverride is a validated plan set request.
type planOverride struct {
	authID    string
	plan      domain.Plan
	expiresAt *time.Time
}

func parsePlanOverride(authID, rawPlan string, days int, now time.Time) (planOverride, error) {
	plan, ok := domain.ParsePlan(rawPlan)
	if !ok {
		return planOverride{}, fmt.Errorf("unsupported plan %q", rawPlan)
	}
	out := planOverride{authID: authID, plan: plan}
	if !plan.IsPaid() {
		return out, nil
	}
	if days == 0 {
		spec, err := entitlement.NewCatalog(nil).Lookup(plan)
		if err != nil {
			return planOverride{}, err
		}
		days = spec.DurationDays
	}
	if days < 0 {
		return planOverride{}, fmt.Errorf("--days must be positive")
	}
	expires := now.AddDate(0, 0, days)
	out.expiresAt = &expires
	return out, nil
}

func planSetCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "set <auth-id> <plan>",
		Short: "Put a user's listing on a plan without a purchase",
		Long: `Put a user's listing on a plan without a purchase.

Paid plans expire after --days, defaulting to the plan's catalog duration.
The next payment event for the user replaces the override.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := parsePlanOverride(args[0], args[1], days, time.Now())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.close()

			fanout := entitlement.NewPlanFanout(env.companions, env.metadata)
			if err := fanout.ApplyPlan(ctx, override.authID, override.plan, override.expiresAt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now on %s", override.authID, override.plan)
			if override.expiresAt != nil {
				fmt.Fprintf(cmd.OutOrStdout(), " until %s", override.expiresAt.Format(time.RFC3339))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "override duration in days")
	return cmd
}
