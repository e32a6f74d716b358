package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/yutaicat/internal/catalog"
	"github.com/roach88/yutaicat/internal/schema"
)

// FileValidation holds the schema result for one file.
type FileValidation struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate published files against the catalog schema",
		Long: `Validate catalog artifacts and manifests against the embedded CUE schema.

Files named catalog-manifest.json are checked as manifests, everything
else as catalog artifacts. With no arguments, the manifest in the
configured dist_dir and the artifact it names are checked.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	s, err := opts.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.logger.Sync() //nolint:errcheck

	if len(files) == 0 {
		files, err = publishedFiles(s.cfg.DistDir)
		if err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil, err)
		}
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		s.formatter.VerboseLog("Validating %s", file)

		data, err := os.ReadFile(file)
		if err != nil {
			return s.formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil, err)
		}

		fv := FileValidation{File: file, Valid: true}
		if err := validateFile(file, data); err != nil {
			var vErr *schema.ValidationError
			if !errors.As(err, &vErr) {
				return s.formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
			}
			fv.Valid = false
			fv.Problems = vErr.Problems
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if !result.Valid {
		return outputValidationErrors(s.formatter, result)
	}
	return outputValidateSuccess(s.formatter, result)
}

func validateFile(path string, data []byte) error {
	if filepath.Base(path) == catalog.ManifestFilename {
		return schema.ValidateManifest(path, data)
	}
	return schema.ValidateCatalog(path, data)
}

// publishedFiles returns the manifest in dir and the artifact it names.
func publishedFiles(dir string) ([]string, error) {
	manifestPath := filepath.Join(dir, catalog.ManifestFilename)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}

	var m catalog.Manifest
	if err := json.Unmarshal(data, &m); err != nil || m.URL == "" {
		// Let the schema report what is wrong with it.
		return []string{manifestPath}, nil
	}
	return []string{manifestPath, filepath.Join(dir, filepath.Base(m.URL))}, nil
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d file(s) valid\n", len(result.Files))
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	invalid := 0
	for _, f := range result.Files {
		if !f.Valid {
			invalid++
		}
	}
	msg := fmt.Sprintf("validation failed for %d file(s)", invalid)

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: ErrCodeSchema, Message: msg},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, f := range result.Files {
		if f.Valid {
			continue
		}
		fmt.Fprintln(formatter.Writer, f.File)
		for _, p := range f.Problems {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeSchema, p)
		}
		fmt.Fprintln(formatter.Writer)
	}

	return NewExitError(ExitFailure, msg)
}
