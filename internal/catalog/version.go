package catalog

import "time"

// ManifestFilename is the fixed name of the manifest in the output directory.
const ManifestFilename = "catalog-manifest.json"

// VersionLayout is the calendar layout of catalog versions.
const VersionLayout = "2006-01-02"

// VersionFor returns the version label for a compile at t: the UTC
// calendar date. Compiles on the same UTC day share a version.
func VersionFor(t time.Time) string {
	return t.UTC().Format(VersionLayout)
}

// ArtifactFilename returns the artifact filename for a version.
func ArtifactFilename(version string) string {
	return "catalog-" + version + ".json"
}
