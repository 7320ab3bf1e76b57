package cli

import (
	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// ReadyOptions holds flags for the ready command.
type ReadyOptions struct {
	*RootOptions
	Note string
}

// NewReadyCommand creates the ready command.
func NewReadyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReadyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ready <bid-id>",
		Short: "Mark a bid ready to submit",
		Long: `Clear a blocked bid and mark it READY_TO_SUBMIT.

Example:
  bidtrack ready 42 --note "Sean confirmed: alternate deduct is in scope"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReady(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Note, "note", "", "audit note (default: \"Ready to submit\")")

	return cmd
}

func runReady(opts *ReadyOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	now := opts.now()

	r, err := mutateBid(cmd.Context(), opts.RootOptions, f, id, func(r *bid.Record) error {
		return lifecycle.MarkReadyToSubmit(r, opts.Note, now)
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
