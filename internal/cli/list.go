package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Journals []string `json:"journals"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List journal identifiers",
		Long: `List the identifiers of all journals, one per line, in ascending order.

Examples:
  linejournal list
  linejournal list --backend sqlite --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	e, err := openEnv(opts, cmd)
	if err != nil {
		return f.FailWith(err)
	}
	defer e.close()

	ids, err := e.journal.List(cmd.Context())
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeIO, "failed to list journals", err)
	}

	if opts.Format == "json" {
		return f.Success(ListResult{Journals: ids})
	}
	for _, id := range ids {
		fmt.Fprintln(f.Writer, id)
	}
	f.VerboseLog("%d journal(s)", len(ids))
	return nil
}
