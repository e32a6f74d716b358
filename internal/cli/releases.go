package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/yutaicat/internal/history"
)

// NewReleasesCommand creates the releases command.
func NewReleasesCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "releases",
		Short:         "List published releases from the history ledger",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runReleases(ctx, rootOpts, limit, cmd)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most n releases (0 for all)")

	return cmd
}

func runReleases(ctx context.Context, opts *RootOptions, limit int, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync() //nolint:errcheck

	if s.cfg.HistoryDB == "" {
		return s.formatter.Fail(ExitCommandError, ErrCodeNotEnabled,
			"history ledger not configured (set history_db or CATALOG_HISTORY_DB)", nil, nil)
	}

	ledger, err := history.Open(s.cfg.HistoryDB)
	if err != nil {
		return s.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
	}
	defer ledger.Close()

	releases, err := ledger.List(ctx, limit)
	if err != nil {
		return s.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(releases)
	}

	if len(releases) == 0 {
		fmt.Fprintln(s.formatter.Writer, "No releases recorded")
		return nil
	}

	tw := tabwriter.NewWriter(s.formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tVERSION\tHASH\tCOMPANIES\tCHAINS\tSTORES\tSKIPPED\tCOMPILED AT")
	for _, r := range releases {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.Seq, r.Version, shortHash(r.Hash), r.Companies, r.Chains, r.Stores, r.Skipped,
			r.CompiledAt.Format("2006-01-02 15:04:05Z07:00"))
	}
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
