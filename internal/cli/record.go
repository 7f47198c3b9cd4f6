package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/linejournal/internal/tracker"
)

// RecordResult reports one recorded file.
type RecordResult struct {
	File    string `json:"file"`
	Journal string `json:"journal"`
	Kind    string `json:"kind"`
	Added   int    `json:"added"`
	Evicted int    `json:"evicted"`
	Total   int    `json:"total"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "record <file>...",
		Short: "Record the current content of files now",
		Long: `Process one change notification per file immediately, as the watcher
would. A file that no longer exists is recorded as deleted.

Exit codes:
  0 - All files recorded
  1 - At least one file could not be recorded
  2 - Configuration error

Examples:
  linejournal record folder_1/notes.txt
  linejournal record a.txt b.txt --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(rootOpts, args, cmd)
		},
	}
}

func runRecord(opts *RootOptions, files []string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	e, err := openEnv(opts, cmd)
	if err != nil {
		return f.FailWith(err)
	}
	defer e.close()

	tr, err := tracker.New(e.journal, tracker.Options{Logger: e.logger})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to create tracker", err)
	}

	results := make([]RecordResult, 0, len(files))
	var failed []error
	for _, file := range files {
		path, err := filepath.Abs(file)
		if err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", file, err))
			continue
		}

		kind := tracker.Modified
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			kind = tracker.Deleted
		}

		res, err := tr.Handle(cmd.Context(), tracker.Event{Path: path, Kind: kind})
		if err != nil {
			failed = append(failed, err)
			continue
		}
		results = append(results, RecordResult{
			File:    file,
			Journal: res.JournalID,
			Kind:    kind.String(),
			Added:   res.Added,
			Evicted: res.Evicted,
			Total:   res.Total,
		})
	}

	if len(failed) > 0 {
		return f.Fail(ExitFailure, ErrCodeIO,
			fmt.Sprintf("%d of %d file(s) not recorded", len(failed), len(files)),
			errors.Join(failed...))
	}

	if opts.Format == "json" {
		return f.Success(results)
	}
	for _, r := range results {
		fmt.Fprintf(f.Writer, "%s: +%d entries (evicted %d, total %d)\n", r.Journal, r.Added, r.Evicted, r.Total)
	}
	return nil
}
