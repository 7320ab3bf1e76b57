package cli

import (
	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	Proof string
	At    string
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit <bid-id>",
		Short: "Record a bid submission",
		Long: `Record the submission of a READY_TO_SUBMIT bid.

Submission captures the proof reference and generates the four-touchpoint
follow-up schedule (2, 7, 14 and 28 days out) in the same step. The
submission confirmation for the approver is printed for dispatch.

Example:
  bidtrack submit 42 --proof screenshots/riverside-planhub.png`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Proof, "proof", "", "submission proof reference (required)")
	cmd.Flags().StringVar(&opts.At, "at", "", "submission time (default: now)")
	_ = cmd.MarkFlagRequired("proof")

	return cmd
}

func runSubmit(opts *SubmitOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	now := opts.now()

	submittedAt := now
	if opts.At != "" {
		t, err := parseTimeFlag(opts.At)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --at", err)
		}
		submittedAt = t
	}

	var intent lifecycle.Intent
	r, err := mutateBid(cmd.Context(), opts.RootOptions, f, id, func(r *bid.Record) error {
		var applyErr error
		intent, applyErr = lifecycle.MarkSubmitted(r, submittedAt, opts.Proof, now)
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
