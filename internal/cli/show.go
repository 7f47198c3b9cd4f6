package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/linejournal/internal/journal"
)

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	Journal string   `json:"journal"`
	Entries []string `json:"entries"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <journal>",
		Short: "Print the raw entries of a journal",
		Long: `Print the persisted entries of a journal verbatim, oldest first.

Exit codes:
  0 - Journal printed
  2 - Unknown journal or configuration error

Examples:
  linejournal show j1_notes.txt_3f2a9c.DAT`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	e, err := openEnv(opts, cmd)
	if err != nil {
		return f.FailWith(err)
	}
	defer e.close()

	if err := requireJournal(cmd.Context(), f, e.journal, id); err != nil {
		return err
	}

	raw, err := e.journal.Read(cmd.Context(), id)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeIO, "failed to read journal", err)
	}

	if opts.Format == "json" {
		return f.Success(ShowResult{Journal: id, Entries: raw})
	}
	for _, line := range raw {
		fmt.Fprintln(f.Writer, line)
	}
	return nil
}

// requireJournal reports ids that do not name an existing journal.
func requireJournal(ctx context.Context, f *OutputFormatter, js *journal.Store, id string) error {
	exists, err := js.Exists(ctx, id)
	if errors.Is(err, journal.ErrInvalidID) {
		return f.Fail(ExitCommandError, ErrCodeInvalidID, "invalid journal id", err)
	}
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeIO, "failed to read journal", err)
	}
	if !exists {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("journal not found: %s", id), nil)
	}
	return nil
}
