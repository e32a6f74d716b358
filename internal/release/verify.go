package release

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/yutaicat/internal/catalog"
)

// HashMismatchError reports an artifact whose bytes no longer match the
// manifest.
type HashMismatchError struct {
	Path string
	Want string
	Got  string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch for %s: manifest %s, artifact %s", e.Path, e.Want, e.Got)
}

// Verify re-reads the manifest in dir and checks it against the artifact
// it names.
func Verify(dir string) (*catalog.Manifest, error) {
	manifestPath := filepath.Join(dir, catalog.ManifestFilename)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	var m catalog.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("verify: parse %s: %w", manifestPath, err)
	}

	if m.URL == "" || strings.ContainsAny(m.URL, `/\`) {
		return nil, fmt.Errorf("verify: manifest url %q is not a plain filename", m.URL)
	}
	if want := catalog.ArtifactFilename(m.Version); m.URL != want {
		return nil, fmt.Errorf("verify: manifest url %q does not match version %q (want %q)", m.URL, m.Version, want)
	}

	artifactPath := filepath.Join(dir, m.URL)
	artifact, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	if got := catalog.HashHex(artifact); got != m.Hash {
		return nil, &HashMismatchError{Path: artifactPath, Want: m.Hash, Got: got}
	}

	return &m, nil
}
