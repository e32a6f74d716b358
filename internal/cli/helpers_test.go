package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/roach88/yutaicat/internal/release"
	"github.com/roach88/yutaicat/internal/testutil"
)

var buildAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

// workspace is a data dir and dist dir wired through CATALOG_* variables.
type workspace struct {
	root    string
	dataDir string
	distDir string
	clock   *testutil.FixedClock
	ids     *testutil.SequentialIDs
	s3      *fakeS3
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	for _, key := range []string{
		"CATALOG_STRICT", "CATALOG_LOG_LEVEL", "CATALOG_LOG_FORMAT",
		"CATALOG_HISTORY_DB", "CATALOG_METRICS_TEXTFILE",
		"CATALOG_S3_BUCKET", "CATALOG_S3_PREFIX", "CATALOG_S3_REGION",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	root := t.TempDir()
	w := &workspace{
		root:    root,
		dataDir: filepath.Join(root, "data"),
		distDir: filepath.Join(root, "dist"),
		clock:   testutil.NewFixedClock(buildAt),
		ids:     testutil.NewSequentialIDs("run"),
		s3:      &fakeS3{},
	}
	t.Setenv("CATALOG_DATA_DIR", w.dataDir)
	t.Setenv("CATALOG_DIST_DIR", w.distDir)
	require.NoError(t, os.MkdirAll(w.dataDir, 0o755))
	return w
}

func (w *workspace) write(t *testing.T, table, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(w.dataDir, table+".csv"), []byte(content), 0o644))
}

// seed writes the single-company round-trip dataset.
func (w *workspace) seed(t *testing.T) {
	t.Helper()
	w.write(t, "companies", "id,name,ticker,chainIds,voucherTypes,notes\ncomp-1,Acme,,chain-9,,\n")
	w.write(t, "chains", "id,displayName,category,companyIds,voucherTypes,tags\nchain-1,Acme Chain,,comp-1,食事,\n")
	w.write(t, "stores", "id,chainId,name,address,lat,lng,tags,updatedAt\nstore-1,chain-1,Acme Shop,,35.0,135.0,,\n")
}

// run executes the root command with args and returns stdout, stderr and
// the command error.
func (w *workspace) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	opts := &RootOptions{
		now:      w.clock.Now,
		newRunID: w.ids.Next,
		newS3Client: func(ctx context.Context, region string) (release.PutObjectAPI, error) {
			return w.s3, nil
		},
	}
	cmd := newRootCommand(opts)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(w.root, "missing.env")}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type fakeS3 struct {
	keys []string
	fail bool
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail {
		return nil, errors.New("access denied")
	}
	if _, err := io.Copy(io.Discard, in.Body); err != nil {
		return nil, err
	}
	f.keys = append(f.keys, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}
