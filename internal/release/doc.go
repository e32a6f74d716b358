// Package release publishes a compiled catalog as a versioned artifact
// plus a manifest, and optionally mirrors the pair to S3.
//
// # Publication
//
// Publish serializes and hashes the catalog before touching the output
// directory. Each file is then written to a temp file in the same
// directory and renamed into place, artifact first, so a reader of the
// manifest never sees a hash for bytes that are not on disk yet.
//
// Re-publishing on the same UTC day overwrites both files in place
// (last writer wins).
package release
