package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRelease(runID, version string, at time.Time) Release {
	return Release{
		RunID:      runID,
		Version:    version,
		Hash:       "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		URL:        "catalog-" + version + ".json",
		Companies:  2,
		Chains:     3,
		Stores:     5,
		Skipped:    1,
		CompiledAt: at,
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 7")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestRecordAndList(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	seq1, err := s.Record(ctx, testRelease("run-1", "2025-03-14", at))
	require.NoError(t, err)
	seq2, err := s.Record(ctx, testRelease("run-2", "2025-03-14", at.Add(time.Hour)))
	require.NoError(t, err)
	assert.Greater(t, seq2, seq1)

	releases, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, releases, 2)

	assert.Equal(t, "run-1", releases[0].RunID)
	assert.Equal(t, "run-2", releases[1].RunID)
	assert.Equal(t, 5, releases[0].Stores)
	assert.Equal(t, 1, releases[0].Skipped)
	assert.True(t, at.Equal(releases[0].CompiledAt))
}

func TestListLimitKeepsNewest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	for i, v := range []string{"2025-03-14", "2025-03-15", "2025-03-16"} {
		_, err := s.Record(ctx, testRelease("run-"+v, v, at.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	releases, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, "2025-03-15", releases[0].Version)
	assert.Equal(t, "2025-03-16", releases[1].Version)
}

func TestListEmpty(t *testing.T) {
	s := createTestStore(t)

	releases, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, releases)
	assert.Empty(t, releases)
}

func TestRecordDuplicateRunID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	r := testRelease("run-1", "2025-03-14", time.Now())

	_, err := s.Record(ctx, r)
	require.NoError(t, err)
	_, err = s.Record(ctx, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record release")
}

func TestLatest(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	_, ok, err := s.Latest(ctx, "2025-03-14")
	require.NoError(t, err)
	assert.False(t, ok)

	first := testRelease("run-1", "2025-03-14", at)
	second := testRelease("run-2", "2025-03-14", at.Add(time.Minute))
	second.Hash = "abc"
	for _, r := range []Release{first, second, testRelease("run-3", "2025-03-15", at.Add(24*time.Hour))} {
		_, err := s.Record(ctx, r)
		require.NoError(t, err)
	}

	got, ok, err := s.Latest(ctx, "2025-03-14")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "run-2", got.RunID)
	assert.Equal(t, "abc", got.Hash)
}
