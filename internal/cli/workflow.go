package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
	"github.com/gritforge/bidtrack/internal/notify"
	"github.com/gritforge/bidtrack/internal/store"
)

// ErrCodeGeneric is the error code for failures outside the transition
// taxonomy (database errors, bad flag values).
const ErrCodeGeneric = "COMMAND_ERROR"

// openStore opens the configured database, wrapping failures as command
// errors (exit code 2).
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// mutateBid runs one transition against a stored record: load, apply, save.
// The save is a single transaction, so a crash between transitions never
// leaves a half-applied one on disk.
func mutateBid(ctx context.Context, opts *RootOptions, f *OutputFormatter, id string, apply func(*bid.Record) error) (*bid.Record, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	r, err := st.LoadBid(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, outputTransitionError(f, &lifecycle.TransitionError{
				Code:    lifecycle.ErrCodeNotFound,
				Message: fmt.Sprintf("no bid with id %s", id),
				BidID:   id,
			})
		}
		return nil, WrapExitError(ExitCommandError, "failed to load bid", err)
	}

	if err := apply(r); err != nil {
		var te *lifecycle.TransitionError
		if errors.As(err, &te) {
			return nil, outputTransitionError(f, te)
		}
		return nil, WrapExitError(ExitCommandError, "transition failed", err)
	}

	if err := st.SaveBid(ctx, r); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to save bid", err)
	}
	return r, nil
}

// outputTransitionError prints a rejected transition via the formatter and
// returns a silent ExitError so the caller exits with code 1.
func outputTransitionError(f *OutputFormatter, te *lifecycle.TransitionError) error {
	details := map[string]string{}
	if te.BidID != "" {
		details["bid_id"] = te.BidID
	}
	if te.Op != "" {
		details["op"] = te.Op
	}
	if te.Status != "" {
		details["status"] = string(te.Status)
	}
	if err := f.Error(string(te.Code), te.Message, details); err != nil {
		return WrapExitError(ExitCommandError, "failed to write error output", err)
	}
	return NewExitError(ExitFailure, te.Message)
}

// TransitionResult is the payload emitted after a successful transition.
type TransitionResult struct {
	BidID   string          `json:"bid_id"`
	Status  bid.Status      `json:"status"`
	Note    string          `json:"note,omitempty"`
	Message *notify.Message `json:"message,omitempty"`
}

// String renders the text-mode output for a transition.
func (t TransitionResult) String() string {
	s := fmt.Sprintf("Bid %s -> %s", t.BidID, t.Status)
	if t.Note != "" {
		s += "\n" + t.Note
	}
	if t.Message != nil {
		s += fmt.Sprintf("\n\nTo: %s\nSubject: %s\n\n%s", t.Message.To, t.Message.Subject, t.Message.Body)
	}
	return s
}

// transitionResult builds the payload from a saved record, rendering the
// notification if the transition produced an intent.
func transitionResult(opts *RootOptions, r *bid.Record, intent *lifecycle.Intent) (TransitionResult, error) {
	result := TransitionResult{BidID: r.ID, Status: r.Status}
	if n := len(r.Audit); n > 0 {
		result.Note = r.Audit[n-1].Note
	}
	if intent != nil {
		renderer, err := opts.renderer()
		if err != nil {
			return TransitionResult{}, err
		}
		msg, err := renderer.Render(r, *intent)
		if err != nil {
			return TransitionResult{}, WrapExitError(ExitCommandError, "failed to render notification", err)
		}
		result.Message = &msg
	}
	return result, nil
}

// parseTimeFlag parses a user-supplied timestamp: RFC 3339 first, then a
// bare date (midnight local time).
func parseTimeFlag(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
