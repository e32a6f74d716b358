package release

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putCall struct {
	bucket, key, contentType string
	body                     []byte
	metadata                 map[string]string
}

type fakeS3 struct {
	calls  []putCall
	failOn string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if key == f.failOn {
		return nil, errors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, putCall{
		bucket:      aws.ToString(in.Bucket),
		key:         key,
		contentType: aws.ToString(in.ContentType),
		body:        body,
		metadata:    in.Metadata,
	})
	return &s3.PutObjectOutput{}, nil
}

func TestMirrorUploadsArtifactThenManifest(t *testing.T) {
	res, err := NewPublisher(t.TempDir(), nil).Publish(compileRoundTrip(t))
	require.NoError(t, err)

	client := &fakeS3{}
	m := NewS3Mirror(client, "releases", "/catalog/", nil)
	require.NoError(t, m.Mirror(context.Background(), res))

	require.Len(t, client.calls, 2)
	assert.Equal(t, "catalog/catalog-2025-03-14.json", client.calls[0].key)
	assert.Equal(t, "catalog/catalog-manifest.json", client.calls[1].key)
	assert.Equal(t, res.Artifact, client.calls[0].body)
	assert.Equal(t, res.ManifestData, client.calls[1].body)

	for _, c := range client.calls {
		assert.Equal(t, "releases", c.bucket)
		assert.Equal(t, jsonContentType, c.contentType)
		assert.Equal(t, res.Manifest.Hash, c.metadata["catalog-hash"])
	}
}

func TestMirrorStopsOnFailure(t *testing.T) {
	res, err := NewPublisher(t.TempDir(), nil).Publish(compileRoundTrip(t))
	require.NoError(t, err)

	client := &fakeS3{failOn: "catalog-2025-03-14.json"}
	err = NewS3Mirror(client, "releases", "", nil).Mirror(context.Background(), res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://releases/catalog-2025-03-14.json")
	assert.Empty(t, client.calls, "manifest is not uploaded without its artifact")
}

func TestMirrorKey(t *testing.T) {
	assert.Equal(t, "x.json", NewS3Mirror(nil, "b", "", nil).Key("x.json"))
	assert.Equal(t, "a/b/x.json", NewS3Mirror(nil, "b", "a/b/", nil).Key("x.json"))
}
