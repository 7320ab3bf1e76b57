package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/lifecycle"
	"github.com/gritforge/bidtrack/internal/report"
	"github.com/gritforge/bidtrack/internal/store"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <bid-id>",
		Short: "Show a bid's full state",
		Long: `Show a single bid: status, follow-up ledger, GC responses and close data.

In JSON mode the full record is emitted, audit log included.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.LoadBid(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return outputTransitionError(f, &lifecycle.TransitionError{
				Code:    lifecycle.ErrCodeNotFound,
				Message: "no bid with id " + id,
				BidID:   id,
			})
		}
		return WrapExitError(ExitCommandError, "failed to load bid", err)
	}

	if opts.Format == "json" {
		return f.Success(r)
	}
	return f.Success(report.BidSummary(r, opts.now()))
}
