package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"companions/internal/domain"
)

func companionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companion",
		Short: "Moderate companion profiles",
	}
	cmd.AddCommand(companionVerifyCmd(), companionSuspendCmd())
	return cmd
}

func companionVerifyCmd() *cobra.Command {
	var (
		reject bool
		notes  string
	)
	cmd := &cobra.Command{
		Use:   "verify <companion-id>",
		Short: "Approve or reject a companion's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.close()

			c, err := env.companions.GetByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load companion %s: %w", args[0], err)
			}
			if err := env.companions.SetVerified(ctx, c.ID, !reject, notes, time.Now()); err != nil {
				return err
			}
			if reject && env.metadata != nil {
				uploaded := false
				if err := env.metadata.UpdateMetadata(ctx, c.AuthID, domain.MetadataPatch{HasUploadedDocs: &uploaded}); err != nil {
					return fmt.Errorf("reset upload flag: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "companion %s verified=%t\n", c.ID, !reject)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reject, "reject", false, "reject instead of approve; the companion must upload again")
	cmd.Flags().StringVar(&notes, "notes", "", "reviewer notes stored on the documents")
	return cmd
}

func companionSuspendCmd() *cobra.Command {
	var restore bool
	cmd := &cobra.Command{
		Use:   "suspend <companion-id>",
		Short: "Hide a listing from the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.close()

			if err := env.companions.SetSuspended(ctx, args[0], !restore); err != nil {
				return fmt.Errorf("suspend %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "companion %s suspended=%t\n", args[0], !restore)
			return nil
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "lift a suspension")
	return cmd
}
