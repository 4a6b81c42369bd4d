package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"companions/internal/entitlement"
	"companions/internal/infra"
)

func entitlementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entitlement",
		Short: "Reconcile entitlements with the payment provider",
	}
	cmd.AddCommand(entitlementSyncCmd())
	return cmd
}

func entitlementSyncCmd() *cobra.Command {
	var byAuth bool
	cmd := &cobra.Command{
		Use:   "sync <customer-id>",
		Short: "Re-read a customer's purchases and apply the latest one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.close()
			if env.cfg.StripeSecretKey == "" {
				return errors.New("STRIPE_SECRET_KEY is required")
			}

			customerID := args[0]
			if byAuth {
				c, err := env.billing.CustomerByAuthID(ctx, args[0])
				if err != nil {
					return fmt.Errorf("lookup customer for %s: %w", args[0], err)
				}
				customerID = c.CustomerID
			}

			var cache entitlement.Cache
			if rdb, err := infra.NewRedis(ctx, env.cfg); err != nil {
				env.logger.Warn().Err(err).Msg("redis unavailable, cache not refreshed")
			} else {
				defer rdb.Close()
				cache = entitlement.NewRedisCache(rdb, 24*time.Hour)
			}

			catalog := entitlement.NewCatalog(env.cfg.StripePrices)
			provider := entitlement.NewStripeProvider(env.cfg.StripeSecretKey, catalog, env.logger)
			var planner entitlement.PlanApplier = env.companions
			if env.metadata != nil {
				planner = entitlement.NewPlanFanout(env.companions, env.metadata)
			}
			syncer := entitlement.NewSyncer(provider, env.billing, planner, cache, env.logger)
			outcome, err := syncer.SyncCustomer(ctx, customerID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "customer %s: %s\n", customerID, outcome)
			return nil
		},
	}
	cmd.Flags().BoolVar(&byAuth, "auth", false, "treat the argument as an identity-provider user id")
	return cmd
}
