package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pendler/internal/domain/schedule"
	"pendler/internal/domain/tax"
	"pendler/internal/platform/config"
	cryptoutil "pendler/internal/platform/crypto"
	"pendler/internal/platform/db"
	"pendler/internal/transport/http/shared"
)

func main() {
	root := &cobra.Command{
		Use:           "pendlerctl",
		Short:         "Admin tooling for the pendler server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(generateCmd(), exportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*config.Config, *schedule.Service, *tax.SnapshotService, func(), error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, err
	}

	scheduleService := schedule.NewService(schedule.NewStore(pool))
	snapshotService := tax.NewSnapshotService(
		tax.NewStore(pool),
		tax.NewLocalStore(cfg.SnapshotFallbackDir),
		crypto,
	)
	return &cfg, scheduleService, snapshotService, pool.Close, nil
}

func generateCmd() *cobra.Command {
	var (
		userID string
		all    bool
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate concrete shifts from imported schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && userID == "" {
				return errors.New("either --user or --all is required")
			}

			start, err := shared.ParseDate(from)
			if err != nil || start.IsZero() {
				return fmt.Errorf("invalid --from date %q", from)
			}
			end, err := shared.ParseDate(to)
			if err != nil || end.IsZero() {
				return fmt.Errorf("invalid --to date %q", to)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			_, scheduleService, _, closePool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closePool()

			if all {
				result, err := scheduleService.GenerateAllShifts(ctx, start, end)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "users ok: %d, users failed: %d, generated: %d, skipped: %d\n",
					result.SuccessfulUsers, result.FailedUsers, result.Generated, result.Skipped)
				for _, user := range result.Users {
					if !user.Success {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", user.UserID, user.Message)
					}
				}
				return nil
			}

			result, err := scheduleService.GenerateUserShifts(ctx, userID, start, end)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("generation failed: %s", result.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "generate for a single user id")
	cmd.Flags().BoolVar(&all, "all", false, "generate for every active assignment")
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored tax data",
	}
	cmd.AddCommand(exportElsterCmd())
	return cmd
}

func exportElsterCmd() *cobra.Command {
	var (
		userID  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "elster",
		Short: "Render a user's saved wizard draft as ELSTER XML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			_, _, snapshotService, closePool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closePool()

			snapshot, _, err := snapshotService.Load(ctx, userID)
			if err != nil {
				return fmt.Errorf("load draft for %s: %w", userID, err)
			}

			data := snapshot.Data
			data.ApplyDefaults()
			if issues := tax.ValidateElsterData(data); len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", issue.Field, issue.Reason)
				}
				return errors.New("draft is not valid for export")
			}

			xml := tax.GenerateElsterXML(data, tax.Calculate(data))
			if outPath == "" || outPath == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), xml)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(xml), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id whose draft to export")
	cmd.Flags().StringVar(&outPath, "out", "-", "output file, - for stdout")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
