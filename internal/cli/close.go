package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// CloseOptions holds flags for the close subcommands.
type CloseOptions struct {
	*RootOptions
	Amount       float64
	Reason       string
	WinningSub   string
	WinningPrice float64
	Note         string
}

// NewCloseCommand creates the close command group.
func NewCloseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close a bid with its final outcome",
		Long: `Close a submitted bid as won, lost, or no-response.

Closing is terminal: a closed bid rejects every further transition.`,
	}

	cmd.AddCommand(newCloseWonCommand(rootOpts))
	cmd.AddCommand(newCloseLostCommand(rootOpts))
	cmd.AddCommand(newCloseNoResponseCommand(rootOpts))

	return cmd
}

func newCloseWonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CloseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "won <bid-id>",
		Short: "Close as won",
		Long: `Close the bid as CLOSED_WON. The award amount is required.

Example:
  bidtrack close won 42 --amount 148500 --note "NTP expected in April"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClose(opts, args[0], cmd, func(r *bid.Record, now time.Time) error {
				return lifecycle.CloseWon(r, opts.Amount, opts.Note, now)
			})
		},
	}

	cmd.Flags().Float64Var(&opts.Amount, "amount", 0, "award amount in dollars (required)")
	cmd.Flags().StringVar(&opts.Note, "note", "", "close note")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newCloseLostCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CloseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lost <bid-id>",
		Short: "Close as lost",
		Long: `Close the bid as CLOSED_LOST. The loss reason is required; the winning
sub and price are optional enrichments for win-rate analysis.

Example:
  bidtrack close lost 42 --reason PRICE --winning-sub "Apex Electric" --winning-price 141000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reason, err := bid.ParseLossReason(opts.Reason)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --reason", err)
			}
			var price *float64
			if cmd.Flags().Changed("winning-price") {
				price = &opts.WinningPrice
			}
			return runClose(opts, args[0], cmd, func(r *bid.Record, now time.Time) error {
				return lifecycle.CloseLost(r, reason, opts.WinningSub, price, opts.Note, now)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Reason, "reason",
		"", "loss reason: PRICE, SCOPE, SCHEDULE, RELATIONSHIP or UNKNOWN (required)")
	cmd.Flags().StringVar(&opts.WinningSub, "winning-sub", "", "subcontractor that won")
	cmd.Flags().Float64Var(&opts.WinningPrice, "winning-price", 0, "winning price in dollars")
	cmd.Flags().StringVar(&opts.Note, "note", "", "close note")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newCloseNoResponseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CloseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "no-response <bid-id>",
		Short: "Close after the GC went silent",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClose(opts, args[0], cmd, func(r *bid.Record, now time.Time) error {
				return lifecycle.CloseNoResponse(r, opts.Note, now)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Note, "note", "", "close note")

	return cmd
}

func runClose(opts *CloseOptions, id string, cmd *cobra.Command, apply func(*bid.Record, time.Time) error) error {
	f := newFormatter(opts.RootOptions, cmd)
	now := opts.now()

	r, err := mutateBid(cmd.Context(), opts.RootOptions, f, id, func(r *bid.Record) error {
		return apply(r, now)
	})
	if err != nil {
		return err
	}

	result, err := transitionResult(opts.RootOptions, r, nil)
	if err != nil {
		return err
	}
	return f.Success(result)
}
