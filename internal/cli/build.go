package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/yutaicat/internal/compiler"
	"github.com/roach88/yutaicat/internal/history"
	"github.com/roach88/yutaicat/internal/metrics"
	"github.com/roach88/yutaicat/internal/normalize"
	"github.com/roach88/yutaicat/internal/recordstore"
	"github.com/roach88/yutaicat/internal/release"
)

// BuildResult is the JSON payload of a successful build.
type BuildResult struct {
	Version  string          `json:"version"`
	Hash     string          `json:"hash"`
	Artifact string          `json:"artifact"`
	Manifest string          `json:"manifest"`
	Report   compiler.Report `json:"report"`
	Mirrored bool            `json:"mirrored"`
	Recorded bool            `json:"recorded"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the record tables and publish the catalog",
		Long: `Read companies.csv, chains.csv and stores.csv from the data directory,
compile them into catalog-<YYYY-MM-DD>.json and rewrite catalog-manifest.json
in the dist directory.

Rows missing an id or name are skipped. A store with an unparseable lat/lng
aborts the build and leaves the previous release untouched. With --strict,
integrity findings (dangling references, duplicate ids, unknown voucher
types) also abort; without it they are logged as warnings.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), rootOpts, strict, cmd)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on integrity findings")

	return cmd
}

func runBuild(ctx context.Context, opts *RootOptions, strictFlag bool, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync() //nolint:errcheck

	runID := opts.runID()
	s.formatter.RunID = runID
	logger := s.logger.With(zap.String("run_id", runID))

	now := opts.clock()
	start := now()

	var m *metrics.BuildMetrics
	if s.cfg.MetricsTextfile != "" {
		m = metrics.NewBuildMetrics()
	}

	strict := s.cfg.Strict || strictFlag
	logger.Info("build started",
		zap.String("data_dir", s.cfg.DataDir),
		zap.String("dist_dir", s.cfg.DistDir),
		zap.Bool("strict", strict))

	comp := compiler.New(compiler.Options{Strict: strict, Now: now, Logger: logger})
	result, err := comp.Compile(recordstore.Open(s.cfg.DataDir))
	if err != nil {
		m.ObserveFailure(now().Sub(start))
		writeMetrics(s.cfg.MetricsTextfile, m, logger)
		logger.Error("build failed", zap.Error(err))
		return compileFailure(s.formatter, err)
	}

	observeReport(m, result.Report)
	logger.Info("catalog compiled",
		zap.String("version", result.Catalog.Version),
		zap.Int("companies", result.Report.Companies.Accepted),
		zap.Int("chains", result.Report.Chains.Accepted),
		zap.Int("stores", result.Report.Stores.Accepted),
		zap.Int("skipped", skipped(result.Report)),
		zap.Int("findings", len(result.Report.Findings)))

	rel, err := release.NewPublisher(s.cfg.DistDir, logger).Publish(result.Catalog)
	if err != nil {
		m.ObserveFailure(now().Sub(start))
		writeMetrics(s.cfg.MetricsTextfile, m, logger)
		logger.Error("publish failed", zap.Error(err))
		return s.formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil, err)
	}

	out := BuildResult{
		Version:  rel.Manifest.Version,
		Hash:     rel.Manifest.Hash,
		Artifact: rel.ArtifactPath,
		Manifest: rel.ManifestPath,
		Report:   result.Report,
	}

	// The local pair is final from here on. Later failures are reported
	// but do not undo it.
	var postErrs []error

	if s.cfg.S3.Enabled() {
		if err := mirrorRelease(ctx, opts, s, rel, logger); err != nil {
			postErrs = append(postErrs, err)
		} else {
			out.Mirrored = true
		}
	}

	if s.cfg.HistoryDB != "" {
		if err := recordRelease(ctx, s.cfg.HistoryDB, runID, start, rel, result.Report); err != nil {
			postErrs = append(postErrs, err)
		} else {
			out.Recorded = true
		}
	}

	if m != nil {
		m.ObserveSuccess(now(), now().Sub(start), len(rel.Artifact))
		if err := m.WriteTextfile(s.cfg.MetricsTextfile); err != nil {
			postErrs = append(postErrs, err)
		}
	}

	if len(postErrs) > 0 {
		err := errors.Join(postErrs...)
		logger.Error("post-publish step failed", zap.Error(err))
		return s.formatter.Fail(ExitFailure, ErrCodePostPublish,
			fmt.Sprintf("catalog %s published but: %v", rel.Manifest.Version, err), out, err)
	}

	if s.formatter.Format == "json" {
		return s.formatter.Success(out)
	}

	fmt.Fprintln(s.formatter.Writer, "Generated:", rel.ArtifactPath)
	fmt.Fprintln(s.formatter.Writer, "Updated:", rel.ManifestPath)
	s.formatter.VerboseLog("version %s, hash %s", rel.Manifest.Version, rel.Manifest.Hash)
	s.formatter.VerboseLog("companies %d, chains %d, stores %d, skipped %d",
		result.Report.Companies.Accepted, result.Report.Chains.Accepted,
		result.Report.Stores.Accepted, skipped(result.Report))
	if n := len(result.Report.Findings); n > 0 {
		s.formatter.VerboseLog("%d integrity finding(s); run check for details", n)
	}
	return nil
}

// compileFailure maps a compile error to an output code and exit code.
func compileFailure(f *OutputFormatter, err error) error {
	var fieldErr *normalize.FieldError
	if errors.As(err, &fieldErr) {
		return f.Fail(ExitFailure, ErrCodeBadField, err.Error(), map[string]string{
			"kind":  fieldErr.Kind,
			"id":    fieldErr.ID,
			"field": fieldErr.Field,
			"value": fieldErr.Value,
		}, err)
	}

	var integrityErr *compiler.IntegrityError
	if errors.As(err, &integrityErr) {
		return reportFindings(f, integrityErr.Findings)
	}

	return f.Fail(ExitCommandError, ErrCodeReadFailed, err.Error(), nil, err)
}

// reportFindings prints integrity findings and returns an ExitFailure.
func reportFindings(f *OutputFormatter, findings []compiler.Finding) error {
	msg := fmt.Sprintf("integrity check failed with %d finding(s)", len(findings))

	if f.Format == "json" {
		_ = f.Error(ErrCodeIntegrity, msg, findings)
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(f.Writer, "✗ Integrity check failed")
	fmt.Fprintln(f.Writer)
	for _, finding := range findings {
		fmt.Fprintf(f.Writer, "  %s\n", finding.Error())
	}
	return NewExitError(ExitFailure, msg)
}

func mirrorRelease(ctx context.Context, opts *RootOptions, s *session, rel *release.Result, logger *zap.Logger) error {
	client, err := opts.s3Client(ctx, s.cfg.S3.Region)
	if err != nil {
		return err
	}
	mirror := release.NewS3Mirror(client, s.cfg.S3.Bucket, s.cfg.S3.Prefix, logger)
	if err := mirror.Mirror(ctx, rel); err != nil {
		return err
	}
	logger.Info("release mirrored",
		zap.String("bucket", s.cfg.S3.Bucket),
		zap.String("key", mirror.Key(rel.Manifest.URL)))
	return nil
}

func recordRelease(ctx context.Context, path, runID string, at time.Time, rel *release.Result, report compiler.Report) error {
	ledger, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open history %s: %w", path, err)
	}
	defer ledger.Close()

	_, err = ledger.Record(ctx, history.Release{
		RunID:      runID,
		Version:    rel.Manifest.Version,
		Hash:       rel.Manifest.Hash,
		URL:        rel.Manifest.URL,
		Companies:  report.Companies.Accepted,
		Chains:     report.Chains.Accepted,
		Stores:     report.Stores.Accepted,
		Skipped:    skipped(report),
		CompiledAt: at,
	})
	return err
}

func observeReport(m *metrics.BuildMetrics, r compiler.Report) {
	m.ObserveRows("companies", r.Companies.Accepted, r.Companies.Skipped)
	m.ObserveRows("chains", r.Chains.Accepted, r.Chains.Skipped)
	m.ObserveRows("stores", r.Stores.Accepted, r.Stores.Skipped)
}

func writeMetrics(path string, m *metrics.BuildMetrics, logger *zap.Logger) {
	if m == nil {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn("metrics not written", zap.Error(err))
	}
}

func skipped(r compiler.Report) int {
	return r.Companies.Skipped + r.Chains.Skipped + r.Stores.Skipped
}
