package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"
	"time"

	"alcyxob/group-fitness/internal/app"
	"alcyxob/group-fitness/internal/config"
	"alcyxob/group-fitness/internal/logging"
	"alcyxob/group-fitness/internal/repository"
	"alcyxob/group-fitness/internal/storage"

	"github.com/spf13/cobra"
)

type globalFlags struct {
	configFile string
	outputJSON bool
	timeout    time.Duration
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "fitctl",
		Short: "Operate on group fitness data",
		Long: `Operate on group fitness data stored in the configured backend.

Examples:
  fitctl groups                          # List all groups
  fitctl leaderboard <groupId> --json    # Standings of a group as JSON
  fitctl reconcile                       # Link workouts missing from their group
  fitctl snapshot-url groups --expires 1h
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Config file (default ./config.yaml)")
	cmd.PersistentFlags().BoolVar(&flags.outputJSON, "json", false, "Output results as JSON")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "Timeout for the whole command")

	cmd.AddCommand(
		groupsCmd(flags),
		leaderboardCmd(flags),
		reconcileCmd(flags),
		snapshotURLCmd(flags),
		versionCmd(),
	)
	return cmd
}

// withApp loads configuration, opens the application and runs fn with a
// context bounded by the timeout flag and cancelled on SIGINT/SIGTERM.
func withApp(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig(".", flags.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Keep stdout clean for command output.
	logging.Setup(logging.LoggerSetupParams{LogLevel: "warn", LogFileName: cfg.Log.File})

	ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	return fn(ctx, a)
}

func groupsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups with member and workout counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				groups, err := a.Groups.ListGroups(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.outputJSON {
					return writeJSON(out, groups)
				}

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tWORKOUTS\tPUBLIC")
				for _, g := range groups {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n", g.ID, g.Name, len(g.Members), len(g.WorkoutIDs), g.IsPublic)
				}
				return w.Flush()
			})
		},
	}
}

func leaderboardCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <groupId>",
		Short: "Print the standings of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				if _, err := a.Groups.GetGroup(ctx, args[0]); err != nil {
					return err
				}
				entries, err := a.Leaderboard.GetLeaderboard(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if flags.outputJSON {
					return writeJSON(out, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "No progress logged yet.")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "RANK\tUSER\tSCORE\tCOMPLETED")
				for _, e := range entries {
					fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", e.Rank, e.UserName, e.TotalScore, e.CompletedWorkouts)
				}
				return w.Flush()
			})
		},
	}
}

func reconcileCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Link every workout missing from its group's workout list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				repaired, err := a.Workouts.Reconcile(ctx)
				if err != nil {
					return err
				}
				if flags.outputJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]int{"repaired": repaired})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Repaired %d group workout links.\n", repaired)
				return nil
			})
		},
	}
}

func snapshotURLCmd(flags *globalFlags) *cobra.Command {
	var expires time.Duration
	cmd := &cobra.Command{
		Use:   "snapshot-url <collection>",
		Short: "Print a presigned download URL for a stored collection (s3 driver)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(repository.Collections, args[0]) {
				return fmt.Errorf("unknown collection %q, want one of %v", args[0], repository.Collections)
			}
			return withApp(cmd, flags, func(ctx context.Context, a *app.App) error {
				linker, ok := a.Backend.(storage.SnapshotLinker)
				if !ok {
					return fmt.Errorf("storage driver does not support snapshot URLs")
				}
				url, err := linker.SnapshotURL(ctx, args[0], expires)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&expires, "expires", storage.DefaultPresignedURLExpiry, "How long the URL stays valid")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fitctl version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fitctl", version)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
