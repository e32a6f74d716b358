package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/yutaicat/internal/catalog"
)

// Result describes a published release.
type Result struct {
	Dir          string
	ArtifactPath string
	ManifestPath string
	Manifest     catalog.Manifest

	// Artifact and ManifestData are the exact bytes written.
	Artifact     []byte
	ManifestData []byte
}

// Publisher writes releases into one output directory.
type Publisher struct {
	dir    string
	logger *zap.Logger
}

// NewPublisher creates a Publisher for dir. A nil logger discards output.
func NewPublisher(dir string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (p *Publisher) Dir() string {
	return p.dir
}

// Publish writes catalog-<version>.json and catalog-manifest.json.
// On error before the first rename the previous pair is untouched.
func (p *Publisher) Publish(c *catalog.Catalog) (*Result, error) {
	if c == nil {
		return nil, errors.New("publish: nil catalog")
	}
	if c.Version == "" {
		return nil, errors.New("publish: catalog has no version")
	}

	artifact, err := catalog.MarshalArtifact(c)
	if err != nil {
		return nil, fmt.Errorf("publish: serialize catalog: %w", err)
	}

	manifest := catalog.Manifest{
		Version: c.Version,
		Hash:    catalog.HashHex(artifact),
		URL:     catalog.ArtifactFilename(c.Version),
	}
	manifestData, err := catalog.MarshalArtifact(manifest)
	if err != nil {
		return nil, fmt.Errorf("publish: serialize manifest: %w", err)
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("publish: create %s: %w", p.dir, err)
	}

	res := &Result{
		Dir:          p.dir,
		ArtifactPath: filepath.Join(p.dir, manifest.URL),
		ManifestPath: filepath.Join(p.dir, catalog.ManifestFilename),
		Manifest:     manifest,
		Artifact:     artifact,
		ManifestData: manifestData,
	}

	if err := writeFileAtomic(res.ArtifactPath, artifact); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	if err := writeFileAtomic(res.ManifestPath, manifestData); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}

	p.logger.Info("catalog published",
		zap.String("version", manifest.Version),
		zap.String("hash", manifest.Hash),
		zap.String("artifact", res.ArtifactPath),
		zap.Int("bytes", len(artifact)))

	return res, nil
}

// writeFileAtomic writes data to a temp file beside path and renames it
// over path.
func writeFileAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, "."+base+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
