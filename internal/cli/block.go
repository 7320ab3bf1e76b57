package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// BlockOptions holds flags for the block command.
type BlockOptions struct {
	*RootOptions
	Question string
	Deadline string
}

// NewBlockCommand creates the block command.
func NewBlockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BlockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "block <bid-id>",
		Short: "Block a bid on approver input",
		Long: `Block a pre-submission bid on a question for the approver.

The bid moves to AWAITING_SEAN_INPUT and the rendered approval request is
printed for dispatch. Submitted bids cannot be blocked.

Example:
  bidtrack block 42 --question "Confirm bond requirement" --deadline 2025-03-05`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlock(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Question, "question", "", "blocking question (required)")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "deadline for the answer (RFC 3339 or YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("question")

	return cmd
}

func runBlock(opts *BlockOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	now := opts.now()

	var deadline *time.Time
	if opts.Deadline != "" {
		d, err := parseTimeFlag(opts.Deadline)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --deadline", err)
		}
		deadline = &d
	}

	var intent lifecycle.Intent
	r, err := mutateBid(cmd.Context(), opts.RootOptions, f, id, func(r *bid.Record) error {
		var applyErr error
		intent, applyErr = lifecycle.MarkAwaitingSean(r, opts.Question, deadline, now)
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
