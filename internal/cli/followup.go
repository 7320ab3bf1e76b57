package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// FollowUpOptions holds flags for the followup subcommands.
type FollowUpOptions struct {
	*RootOptions
	Kind string
}

// NewFollowUpCommand creates the followup command group.
func NewFollowUpCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "followup",
		Short: "Work the follow-up ledger",
	}

	cmd.AddCommand(newFollowUpSentCommand(rootOpts))
	cmd.AddCommand(newFollowUpNextCommand(rootOpts))

	return cmd
}

func newFollowUpSentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FollowUpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sent <bid-id>",
		Short: "Mark a follow-up touchpoint as sent",
		Long: `Mark the ledger entry of the given kind as sent now.

The rendered outreach message for the GC estimator is printed for dispatch.
Re-marking an already-sent touchpoint fails with ALREADY_COMPLETE.

Example:
  bidtrack followup sent 42 --kind STATUS_CHECK`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollowUpSent(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind",
		"", "touchpoint kind: RECEIPT_CONFIRMATION, STATUS_CHECK, VALUE_TOUCH or CLOSEOUT_REQUEST (required)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func runFollowUpSent(opts *FollowUpOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	now := opts.now()

	kind, err := bid.ParseFollowUpKind(opts.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --kind", err)
	}

	var intent lifecycle.Intent
	r, err := mutateBid(cmd.Context(), opts.RootOptions, f, id, func(r *bid.Record) error {
		var applyErr error
		intent, applyErr = lifecycle.MarkFollowUpSent(r, kind, now)
		return applyErr
	})
	if err != nil {
		return err
	}

	result, err := transitionResult(opts.RootOptions, r, &intent)
	if err != nil {
		return err
	}
	return f.Success(result)
}

// NextFollowUpResult is the payload for followup next.
type NextFollowUpResult struct {
	BidID       string            `json:"bid_id"`
	Entry       *bid.FollowUpEntry `json:"entry,omitempty"`
	AllComplete bool              `json:"all_complete"`
}

// String renders the text-mode output for followup next.
func (n NextFollowUpResult) String() string {
	if n.AllComplete {
		return fmt.Sprintf("Bid %s: all follow-ups sent", n.BidID)
	}
	return fmt.Sprintf("Bid %s: next follow-up %s, scheduled %s",
		n.BidID, n.Entry.Kind, n.Entry.ScheduledAt.Format("Jan 02, 2006"))
}

func newFollowUpNextCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next <bid-id>",
		Short: "Show the next unsent touchpoint",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFollowUpNext(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runFollowUpNext(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.LoadBid(cmd.Context(), id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load bid", err)
	}

	next := bid.NextFollowUp(r)
	return f.Success(NextFollowUpResult{
		BidID:       r.ID,
		Entry:       next,
		AllComplete: next == nil,
	})
}
