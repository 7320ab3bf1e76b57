package cli

import (
	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// RespondOptions holds flags for the respond command.
type RespondOptions struct {
	*RootOptions
	Category string
	Note     string
	Receipt  bool
}

// NewRespondCommand creates the respond command.
func NewRespondCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RespondOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "respond <bid-id>",
		Short: "Record a GC response",
		Long: `Record a response from the general contractor.

The response is categorized, date-stamped into the notes, and credited to
the most recently sent touchpoint still awaiting an answer. Pass --receipt
to record a plain receipt confirmation instead of a categorized response.

Example:
  bidtrack respond 42 --category REVIEWING --note "Award decision next week"
  bidtrack respond 42 --receipt --note "Auto-reply from PlanHub"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRespond(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category",
		"", "response category: REVIEWING, AWARDED, NEED_REVISION, SCOPE_CLARIFICATION, INVITE_TO_SUBMIT, NO_RESPONSE or UNKNOWN")
	cmd.Flags().StringVar(&opts.Note, "note", "", "free-text response note")
	cmd.Flags().BoolVar(&opts.Receipt, "receipt", false, "record a receipt confirmation")
	cmd.MarkFlagsMutuallyExclusive("category", "receipt")
	cmd.MarkFlagsOneRequired("category", "receipt")

	return cmd
}

func runRespond(opts *RespondOptions, id string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	now := opts.now()

	var category bid.GCResponseKind
	if !opts.Receipt {
		var err error
		category, err = bid.ParseGCResponseKind(opts.Category)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --category", err)
		}
	}

	r, err := mutateBid(cmd.Context(), opts.RootOptions, f, id, func(r *bid.Record) error {
		if opts.Receipt {
			return lifecycle.MarkReceiptConfirmed(r, opts.Note, now)
		}
		return lifecycle.RecordGCResponse(r, category, opts.Note, now)
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
