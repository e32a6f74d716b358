package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Release is one ledger row.
type Release struct {
	Seq        int64     `json:"seq"`
	RunID      string    `json:"runId"`
	Version    string    `json:"version"`
	Hash       string    `json:"hash"`
	URL        string    `json:"url"`
	Companies  int       `json:"companies"`
	Chains     int       `json:"chains"`
	Stores     int       `json:"stores"`
	Skipped    int       `json:"skipped"`
	CompiledAt time.Time `json:"compiledAt"`
}

// Record appends a release and returns its sequence number.
// A repeated run id is rejected by the UNIQUE constraint.
func (s *Store) Record(ctx context.Context, r Release) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO releases
		(run_id, version, hash, url, companies, chains, stores, skipped, compiled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.RunID,
		r.Version,
		r.Hash,
		r.URL,
		r.Companies,
		r.Chains,
		r.Stores,
		r.Skipped,
		r.CompiledAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("record release: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record release: %w", err)
	}
	return seq, nil
}

// List returns up to limit releases, newest last. limit <= 0 means all.
// Returns an empty slice (not nil) when the ledger is empty.
func (s *Store) List(ctx context.Context, limit int) ([]Release, error) {
	query := `
		SELECT seq, run_id, version, hash, url, companies, chains, stores, skipped, compiled_at
		FROM (
			SELECT * FROM releases ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer rows.Close()

	releases := []Release{}
	for rows.Next() {
		var (
			r          Release
			compiledAt string
		)
		if err := rows.Scan(&r.Seq, &r.RunID, &r.Version, &r.Hash, &r.URL,
			&r.Companies, &r.Chains, &r.Stores, &r.Skipped, &compiledAt); err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		r.CompiledAt, err = time.Parse(time.RFC3339Nano, compiledAt)
		if err != nil {
			return nil, fmt.Errorf("scan release %s: compiled_at: %w", r.RunID, err)
		}
		releases = append(releases, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate releases: %w", err)
	}

	return releases, nil
}

// Latest returns the most recent release for version, or false if the
// version was never published.
func (s *Store) Latest(ctx context.Context, version string) (Release, bool, error) {
	var (
		r          Release
		compiledAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, run_id, version, hash, url, companies, chains, stores, skipped, compiled_at
		FROM releases
		WHERE version = ?
		ORDER BY seq DESC
		LIMIT 1
	`, version).Scan(&r.Seq, &r.RunID, &r.Version, &r.Hash, &r.URL,
		&r.Companies, &r.Chains, &r.Stores, &r.Skipped, &compiledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Release{}, false, nil
	}
	if err != nil {
		return Release{}, false, fmt.Errorf("latest release %s: %w", version, err)
	}

	r.CompiledAt, err = time.Parse(time.RFC3339Nano, compiledAt)
	if err != nil {
		return Release{}, false, fmt.Errorf("latest release %s: compiled_at: %w", version, err)
	}
	return r, true, nil
}
