package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/replay"
)

// RebuildOptions holds flags for the rebuild command.
type RebuildOptions struct {
	*RootOptions
	Since string // optional - "YYYY-MM-DD HH:MM:SS"
}

// RebuildResult is the JSON payload of the rebuild command.
type RebuildResult struct {
	Journal string   `json:"journal"`
	Since   string   `json:"since,omitempty"`
	Lines   []string `json:"lines"`
}

// NewRebuildCommand creates the rebuild command.
func NewRebuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RebuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rebuild <journal>",
		Short: "Rebuild file content from a journal",
		Long: `Replay a journal from an empty file and print the resulting lines.

With --since, entries stamped before the threshold are skipped. Replay still
starts from an empty file, so the output holds only what changed at or after
the threshold, not the file as it was at that moment.

Exit codes:
  0 - Content rebuilt
  1 - Journal holds a malformed entry
  2 - Unknown journal, invalid --since, or configuration error

Examples:
  linejournal rebuild j1_notes.txt_3f2a9c.DAT
  linejournal rebuild j1_notes.txt_3f2a9c.DAT --since "2024-12-09 10:00:00"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Since, "since", "", `only replay entries at or after "YYYY-MM-DD HH:MM:SS"`)

	return cmd
}

func runRebuild(opts *RebuildOptions, id string, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	if opts.Since != "" {
		if _, err := entry.ParseTimestamp(opts.Since); err != nil {
			return f.Fail(ExitCommandError, ErrCodeInvalidSince,
				fmt.Sprintf("invalid --since %q: want %s", opts.Since, entry.TimestampLayout), nil)
		}
	}

	e, err := openEnv(opts.RootOptions, cmd)
	if err != nil {
		return f.FailWith(err)
	}
	defer e.close()

	if err := requireJournal(cmd.Context(), f, e.journal, id); err != nil {
		return err
	}

	r := replay.New(e.journal)
	var lines []string
	if opts.Since != "" {
		lines, err = r.StateAtOrAfter(cmd.Context(), id, opts.Since)
	} else {
		lines, err = r.PreviousState(cmd.Context(), id)
	}
	if err != nil {
		if entry.IsFormatError(err) {
			return f.Fail(ExitFailure, ErrCodeFormat, "journal holds a malformed entry", err)
		}
		return f.Fail(ExitFailure, ErrCodeIO, "failed to rebuild journal", err)
	}

	if opts.Format == "json" {
		return f.Success(RebuildResult{Journal: id, Since: opts.Since, Lines: lines})
	}
	if len(lines) > 0 {
		fmt.Fprintln(f.Writer, strings.Join(lines, "\n"))
	}
	return nil
}
