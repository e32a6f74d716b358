package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/yutaicat/internal/release"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [dist-dir]",
		Short: "Re-hash the published artifact and compare it with the manifest",
		Long: `Read catalog-manifest.json from the dist directory (default: the
configured dist_dir), hash the artifact it names, and compare.

Exits 1 on a hash mismatch.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runVerify(opts *RootOptions, args []string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync() //nolint:errcheck

	dir := s.cfg.DistDir
	if len(args) == 1 {
		dir = args[0]
	}

	m, err := release.Verify(dir)
	if err != nil {
		var mismatch *release.HashMismatchError
		switch {
		case errors.As(err, &mismatch):
			return s.formatter.Fail(ExitFailure, ErrCodeHashMismatch, err.Error(), mismatch, err)
		case errors.Is(err, os.ErrNotExist):
			return s.formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil, err)
		default:
			return s.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
		}
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(m)
	}

	fmt.Fprintf(s.formatter.Writer, "✓ %s matches %s\n", m.URL, m.Hash)
	return nil
}
