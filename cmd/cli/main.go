package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fecwatch/contribution-monitor/internal/aggregator"
	"github.com/fecwatch/contribution-monitor/internal/config"
	"github.com/fecwatch/contribution-monitor/internal/digest"
	"github.com/fecwatch/contribution-monitor/internal/fec"
	"github.com/fecwatch/contribution-monitor/internal/monitor"
	"github.com/fecwatch/contribution-monitor/internal/secrets"
	"github.com/fecwatch/contribution-monitor/internal/storage"
	"github.com/fecwatch/contribution-monitor/internal/storage/postgres"
	"github.com/fecwatch/contribution-monitor/internal/storage/sqlite"
	"github.com/fecwatch/contribution-monitor/internal/watchlist"
)

var (
	dryRun       bool
	historyLimit int
)

var rootCmd = &cobra.Command{
	Use:   "fec-monitor",
	Short: "FEC contribution monitoring tool",
	Long: `A tool that watches FEC schedule A disclosures for a fixed list of
contributors and emails a digest when newly loaded records appear.

Freshness is decided by the FEC index load date, not the contribution's own
receipt date: an old contribution that was just indexed counts as new.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one monitoring pass",
	Long:  `Fetch fresh contributions for every watch-list entry and email the digest if any were found.`,
	RunE:  runMonitor,
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Show the watch list",
	Long:  `Display the contributors being monitored, in digest order.`,
	RunE:  runShowWatchlist,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent run history",
	Long:  `Display recorded monitoring runs, newest first.`,
	RunE:  runShowHistory,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and print the digest without sending email")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.Storage.PostgresURL)
	default:
		return sqlite.NewSQLiteStorage(cfg.Storage.SQLitePath)
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := context.Background()

	if dryRun {
		return runDry(ctx, cfg)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	outcome, err := monitor.NewConfigRunner(cfg, store).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(outcome.Message)
	if outcome.ContributionsFound > 0 {
		fmt.Printf("Contributions found: %d\n", outcome.ContributionsFound)
	}
	if outcome.RecordsSkipped > 0 {
		fmt.Printf("Malformed records skipped: %d\n", outcome.RecordsSkipped)
	}
	return nil
}

// runDry fetches and prints the digest without delivering it. Only the FEC
// API key is needed, so a missing SMTP secret doesn't block a preview.
func runDry(ctx context.Context, cfg *config.Config) error {
	contributors, err := watchlist.Load(cfg.WatchlistPath)
	if err != nil {
		return err
	}

	secretStore, err := secrets.New(cfg)
	if err != nil {
		return err
	}
	apiKey, err := secretStore.Get(ctx, secrets.FECAPIKey)
	if err != nil {
		return err
	}

	fetcher := fec.NewClient(cfg.FEC, apiKey)
	summary := aggregator.New(fetcher).Aggregate(ctx, contributors)

	for _, group := range summary.Digest.Groups {
		fmt.Printf("\n%s\n", group.Contributor.Name)
		if len(group.Contributions) == 0 {
			fmt.Println("  No recent contributions found")
			continue
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Date", "Amount", "Committee", "Employer", "Loaded"})
		for _, c := range group.Contributions {
			table.Append([]string{
				c.Date.Format("2006-01-02"),
				digest.FormatAmount(c.Amount),
				c.CommitteeName,
				c.Employer,
				c.LoadDate.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
	}

	if summary.Digest.HasContributions() {
		fmt.Printf("\nWould send digest with %d contributions (dry run)\n", summary.Digest.TotalContributions())
	} else {
		fmt.Printf("\n%s\n", monitor.MessageNoNew)
	}
	if summary.RecordsSkipped > 0 {
		fmt.Printf("Malformed records skipped: %d\n", summary.RecordsSkipped)
	}
	return nil
}

func runShowWatchlist(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	contributors, err := watchlist.Load(cfg.WatchlistPath)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Employer"})
	for _, c := range contributors {
		table.Append([]string{c.Name, c.Employer})
	}
	table.Render()

	return nil
}

func runShowHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := getStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Ran At", "Outcome", "Checked", "Found", "Skipped", "Error"})
	for _, run := range runs {
		table.Append([]string{
			run.RanAt.Format("2006-01-02 15:04:05"),
			string(run.Outcome),
			fmt.Sprintf("%d", run.ContributorsChecked),
			fmt.Sprintf("%d", run.ContributionsFound),
			fmt.Sprintf("%d", run.RecordsSkipped),
			run.Error,
		})
	}
	table.Render()

	return nil
}
