package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/yutaicat/internal/config"
	"github.com/roach88/yutaicat/internal/logging"
	"github.com/roach88/yutaicat/internal/release"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	EnvFile    string

	// Test seams. Zero values use the real clock and AWS.
	now         func() time.Time
	newRunID    func() string
	newS3Client func(ctx context.Context, region string) (release.PutObjectAPI, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the catalogc CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogc",
		Short: "Shareholder benefit catalog compiler",
		Long: `Compiles the companies, chains and stores tables into a versioned,
hash-stamped catalog artifact plus a manifest pointing at it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file (ignored if missing)")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewReleasesCommand(opts))

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

// session is the per-invocation state shared by commands.
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	formatter *OutputFormatter
}

// newSession loads config and builds the logger. Errors are already
// reported through the formatter.
func (o *RootOptions) newSession(cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}

	cfg, err := config.Load(config.LoadOptions{File: o.ConfigFile, DotEnv: o.EnvFile})
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil, err)
	}

	level := cfg.Log.Level
	if o.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil, err)
	}

	return &session{cfg: cfg, logger: logger, formatter: formatter}, nil
}

func (o *RootOptions) clock() func() time.Time {
	if o.now != nil {
		return o.now
	}
	return time.Now
}

func (o *RootOptions) runID() string {
	if o.newRunID != nil {
		return o.newRunID()
	}
	return uuid.Must(uuid.NewV7()).String()
}

func (o *RootOptions) s3Client(ctx context.Context, region string) (release.PutObjectAPI, error) {
	if o.newS3Client != nil {
		return o.newS3Client(ctx, region)
	}
	client, err := release.NewS3Client(ctx, region)
	if err != nil {
		return nil, err
	}
	return client, nil
}
