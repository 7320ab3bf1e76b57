// Package cli wires the bid tracker into a cobra command tree. Commands own
// the wall clock and the store: each mutation loads the record, runs the
// lifecycle transition with an explicit "now", saves atomically, and renders
// any notification the transition asks for.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gritforge/bidtrack/internal/lifecycle"
	"github.com/gritforge/bidtrack/internal/notify"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Sender   string
	Company  string
	Approver string

	// Clock allows overriding the wall clock (for testing).
	// If nil, defaults to time.Now.
	Clock func() time.Time

	// IDGen allows overriding the bid id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGen lifecycle.IDGenerator

	// TemplatesDir loads the notification catalog from a directory instead
	// of the embedded one.
	TemplatesDir string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bidtrack CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bidtrack",
		Short: "Track construction bids from submission to close",
		Long: `bidtrack follows each bid through its lifecycle: pre-submission approval,
submission with proof, the fixed four-touchpoint follow-up schedule, GC
responses, and the final won/lost/no-response close. Every transition is
recorded in an append-only audit log.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			logLevel := slog.LevelWarn
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "bidtrack.db", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Sender, "sender", "", "sender name for outbound messages")
	cmd.PersistentFlags().StringVar(&opts.Company, "company", "", "sender company for outbound messages")
	cmd.PersistentFlags().StringVar(&opts.Approver, "approver", "", "email address for approver-facing messages")
	cmd.PersistentFlags().StringVar(&opts.TemplatesDir, "templates", "", "directory of CUE notification templates (default: embedded)")

	// Add subcommands
	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewBlockCommand(opts))
	cmd.AddCommand(NewReadyCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewFollowUpCommand(opts))
	cmd.AddCommand(NewRespondCommand(opts))
	cmd.AddCommand(NewCloseCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// now returns the command's reference time.
func (o *RootOptions) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// idGen returns the configured id generator.
func (o *RootOptions) idGen() lifecycle.IDGenerator {
	if o.IDGen != nil {
		return o.IDGen
	}
	return lifecycle.UUIDv7Generator{}
}

// renderer builds the notification renderer from the configured catalog.
func (o *RootOptions) renderer() (*notify.Renderer, error) {
	var (
		catalog notify.Catalog
		err     error
	)
	if o.TemplatesDir != "" {
		catalog, err = notify.LoadCatalog(o.TemplatesDir)
	} else {
		catalog, err = notify.DefaultCatalog()
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load notification templates", err)
	}

	var ropts []notify.RendererOption
	if o.Sender != "" || o.Company != "" {
		name, company := o.Sender, o.Company
		if name == "" {
			name = "Arron"
		}
		if company == "" {
			company = "GritForge Consultants"
		}
		ropts = append(ropts, notify.WithSender(name, company))
	}
	if o.Approver != "" {
		ropts = append(ropts, notify.WithApproverEmail(o.Approver))
	}
	return notify.NewRenderer(catalog, ropts...), nil
}

// newFormatter builds the output formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
