package cli

import (
	"fmt"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/roach88/linejournal/internal/entry"
	"github.com/roach88/linejournal/internal/replay"
	"github.com/roach88/linejournal/internal/source"
)

// CompareResult is the JSON payload of the compare command.
type CompareResult struct {
	File    string `json:"file"`
	Journal string `json:"journal"`
	Changed bool   `json:"changed"`
	Diff    string `json:"diff,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file>",
		Short: "Diff a file against its journaled state",
		Long: `Print a unified diff from the content rebuilt out of the file's journal to
the file's current content. No output means nothing changed since the last
recorded entry.

Examples:
  linejournal compare folder_1/notes.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(rootOpts, args[0], cmd)
		},
	}
}

func runCompare(opts *RootOptions, file string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	e, err := openEnv(opts, cmd)
	if err != nil {
		return f.FailWith(err)
	}
	defer e.close()

	path, err := filepath.Abs(file)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "invalid file path", err)
	}
	id := e.journal.Identify(path)

	previous, err := replay.New(e.journal).PreviousState(cmd.Context(), id)
	if err != nil {
		if entry.IsFormatError(err) {
			return f.Fail(ExitFailure, ErrCodeFormat, "journal holds a malformed entry", err)
		}
		return f.Fail(ExitFailure, ErrCodeIO, "failed to rebuild journal", err)
	}

	current, err := source.ReadLines(path)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeIO, "failed to read file", err)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(previous),
		B:        withNewlines(current),
		FromFile: id,
		ToFile:   file,
		Context:  3,
	})
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, "failed to diff", err)
	}

	if opts.Format == "json" {
		return f.Success(CompareResult{File: file, Journal: id, Changed: diff != "", Diff: diff})
	}
	fmt.Fprint(f.Writer, diff)
	return nil
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
