package cli

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	GCCompany      string
	EstimatorName  string
	EstimatorEmail string
	EstimatorPhone string
	Platform       string
	Due            string
	Question       string
	Deadline       string
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <project-name>",
		Short: "Create a bid record",
		Long: `Create a bid record in READY_TO_SUBMIT.

Pass --question to start the bid blocked on approver input instead; the
rendered approval request is printed for dispatch.

Example:
  bidtrack new "Riverside Medical Office" --gc "Turner Construction" \
    --estimator "Mike Chen" --email mike@turner.example --platform PlanHub \
    --question "Is the alternate deduct in scope?" --deadline 2025-03-05`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.GCCompany, "gc", "", "general contractor company (required)")
	cmd.Flags().StringVar(&opts.EstimatorName, "estimator", "", "GC estimator name (required)")
	cmd.Flags().StringVar(&opts.EstimatorEmail, "email", "", "GC estimator email (required)")
	cmd.Flags().StringVar(&opts.EstimatorPhone, "phone", "", "GC estimator phone")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "submission platform (PlanHub, ConstructConnect, Email)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "bid due time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Question, "question", "", "blocking question for the approver")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "deadline for the approver's answer")
	_ = cmd.MarkFlagRequired("gc")
	_ = cmd.MarkFlagRequired("estimator")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runNew(opts *NewOptions, projectName string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	now := opts.now()

	var bidOpts []bid.Option
	if opts.Platform != "" {
		bidOpts = append(bidOpts, bid.WithPlatform(opts.Platform))
	}
	if opts.EstimatorPhone != "" {
		bidOpts = append(bidOpts, bid.WithEstimatorPhone(opts.EstimatorPhone))
	}
	if opts.Due != "" {
		due, err := parseTimeFlag(opts.Due)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --due", err)
		}
		bidOpts = append(bidOpts, bid.WithDueAt(due))
	}

	id := opts.idGen().Generate()
	r := bid.New(id, projectName, opts.GCCompany, opts.EstimatorName, opts.EstimatorEmail, now, bidOpts...)
	slog.Debug("created bid", "bid_id", id, "project", projectName)

	var intent *lifecycle.Intent
	if opts.Question != "" {
		var deadline *time.Time
		if opts.Deadline != "" {
			d, err := parseTimeFlag(opts.Deadline)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --deadline", err)
			}
			deadline = &d
		}
		blocked, err := lifecycle.MarkAwaitingSean(r, opts.Question, deadline, now)
		if err != nil {
			var te *lifecycle.TransitionError
			if errors.As(err, &te) {
				return outputTransitionError(f, te)
			}
			return WrapExitError(ExitCommandError, "failed to block bid", err)
		}
		intent = &blocked
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

	if err := st.SaveBid(cmd.Context(), r); err != nil {
		return WrapExitError(ExitCommandError, "failed to save bid", err)
	}

	result, err := transitionResult(opts.RootOptions, r, intent)
	if err != nil {
		return err
	}
	result.Note = "Created " + projectName
	if opts.Question != "" {
		result.Note += " (blocked on approver input)"
	}
	return f.Success(result)
}
