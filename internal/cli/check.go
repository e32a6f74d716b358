package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/yutaicat/internal/compiler"
	"github.com/roach88/yutaicat/internal/recordstore"
)

// CheckResult is the JSON payload of a clean check.
type CheckResult struct {
	Valid  bool            `json:"valid"`
	Report compiler.Report `json:"report"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the record tables for dangling references and duplicate ids",
		Long: `Compile the record tables without publishing and report integrity
findings:

  E201  store.chainId names no chain
  E202  chain.companyIds names no company
  E203  id repeated within one kind
  E204  voucherTypes entry outside the allowed list

Exits 1 when any finding is reported.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync() //nolint:errcheck

	comp := compiler.New(compiler.Options{Now: opts.clock(), Logger: s.logger})
	result, err := comp.Compile(recordstore.Open(s.cfg.DataDir))
	if err != nil {
		return compileFailure(s.formatter, err)
	}

	findings := result.Report.Findings
	s.formatter.VerboseLog("checked %d companies, %d chains, %d stores (%d rows skipped)",
		result.Report.Companies.Accepted, result.Report.Chains.Accepted,
		result.Report.Stores.Accepted, skipped(result.Report))

	if len(findings) > 0 {
		return reportFindings(s.formatter, findings)
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(CheckResult{Valid: true, Report: result.Report})
	}

	fmt.Fprintln(s.formatter.Writer, "✓ No integrity findings")
	return nil
}
