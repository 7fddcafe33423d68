package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"adsyclub/internal/common"
	"adsyclub/internal/repositories"
	"adsyclub/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire lapsed subscriptions and clear stale pro flags once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), "sweep")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.sweep.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary.Message)
		if summary.ProductsDeactivated > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %d products\n", summary.ProductsDeactivated)
		}
		return nil
	},
}

var seedPlansCmd = &cobra.Command{
	Use:   "seed-plans",
	Short: "Create the default Free and Pro plans if they are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), "seed")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := services.SeedDefaultPlans(cmd.Context(), a.store.Plans)
		if err != nil {
			return err
		}
		for _, plan := range result.Plans {
			fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s  price=%s  days=%d  listings=%d  featured=%d\n",
				plan.Name, plan.ID, plan.Price.StringFixed(2), plan.DurationDays, plan.MaxListings, plan.FeaturedListings)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d of %d default plans\n", result.Created, len(result.Plans))
		return nil
	},
}

type syncOptions struct {
	email   string
	dryRun  bool
	verbose bool
}

func newSyncProductsCmd() *cobra.Command {
	opts := &syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync-products",
		Short: "Reconcile product activation with subscription status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), "sync-products")
			if err != nil {
				return err
			}
			defer a.Close()
			return runSyncProducts(cmd.Context(), cmd.OutOrStdout(), a.store.Users, a.productSync, opts)
		},
	}
	cmd.Flags().StringVar(&opts.email, "user", "", "only sync the user with this email")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "print a line per processed user")
	return cmd
}

func runSyncProducts(ctx context.Context, out io.Writer, users repositories.UserRepository, productSync services.ProductSyncService, opts *syncOptions) error {
	var target *uuid.UUID
	if email := strings.ToLower(strings.TrimSpace(opts.email)); email != "" {
		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("user with email %s: %w", email, common.ErrNotFound)
			}
			return fmt.Errorf("failed to look up user: %w", err)
		}
		target = &user.ID
	}

	result, err := productSync.SyncWithSubscriptionStatus(ctx, target, opts.dryRun)
	if err != nil {
		return err
	}
	writeSyncResult(out, result, opts.verbose)
	return nil
}

func writeSyncResult(out io.Writer, result *services.SyncResult, verbose bool) {
	if verbose {
		for _, d := range result.Details {
			state := "inactive"
			if d.ShouldBeActive {
				state = "active"
			}
			line := fmt.Sprintf("%s (%s): should be %s, %d products changed", d.Email, d.UserID, state, d.Changed)
			if d.Error != "" {
				line += ", error: " + d.Error
			}
			fmt.Fprintln(out, line)
		}
	}
	fmt.Fprintln(out, result.Message)
}
