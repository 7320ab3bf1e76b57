package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/query"
	"github.com/gritforge/bidtrack/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	AsOf           string
	CloseThreshold int
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the daily action report",
		Long: `Print the daily action report: bids awaiting approver input, bids ready
to submit, overdue follow-ups, follow-ups due today, and stale bids needing
close.

Example:
  bidtrack report
  bidtrack report --as-of 2025-03-17 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.AsOf, "as-of", "", "reference time (default: now)")
	cmd.Flags().IntVar(&opts.CloseThreshold, "close-after", query.DefaultCloseThresholdDays,
		"days after which a fully followed-up bid needs close")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	now := opts.now()
	if opts.AsOf != "" {
		t, err := parseTimeFlag(opts.AsOf)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --as-of", err)
		}
		now = t
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	records, err := st.LoadAll(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load bids", err)
	}
	f.VerboseLog("Loaded %d bid(s) from %s", len(records), opts.Database)

	daily := query.BuildDailyReport(records, now, opts.CloseThreshold)
	if opts.Format == "json" {
		return f.Success(daily)
	}
	return f.Success(report.DailyReport(daily))
}
