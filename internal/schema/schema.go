// Package schema validates published files against an embedded CUE schema.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed catalog.cue
var schemaSource string

// Definitions in catalog.cue.
const (
	Catalog  = "#Catalog"
	Manifest = "#Manifest"
)

// ValidationError lists every schema violation found in one document.
type ValidationError struct {
	Name     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d schema violation(s):\n  %s", e.Name, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Source returns the embedded CUE schema text.
func Source() string {
	return schemaSource
}

// Validate checks the JSON document data against definition (Catalog or
// Manifest). name labels the document in error messages.
func Validate(definition, name string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("catalog.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if !def.Exists() {
		return fmt.Errorf("unknown schema definition %q", definition)
	}

	doc := ctx.CompileBytes(data, cue.Filename(name))
	if err := doc.Err(); err != nil {
		return &ValidationError{Name: name, Problems: problems(err)}
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Name: name, Problems: problems(err)}
	}
	return nil
}

// ValidateCatalog checks a catalog artifact.
func ValidateCatalog(name string, data []byte) error {
	return Validate(Catalog, name, data)
}

// ValidateManifest checks a manifest.
func ValidateManifest(name string, data []byte) error {
	return Validate(Manifest, name, data)
}

func problems(err error) []string {
	errs := cueerrors.Errors(err)
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}
