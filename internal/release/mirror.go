package release

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/roach88/yutaicat/internal/catalog"
)

const jsonContentType = "application/json; charset=utf-8"

// PutObjectAPI is the part of *s3.Client the mirror uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS credential chain.
// An empty region defers to the environment/shared config.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// S3Mirror uploads published releases to a bucket.
type S3Mirror struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

// NewS3Mirror creates a mirror writing under prefix in bucket.
func NewS3Mirror(client PutObjectAPI, bucket, prefix string, logger *zap.Logger) *S3Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Mirror{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Key returns the object key for a published filename.
func (m *S3Mirror) Key(name string) string {
	prefix := strings.Trim(m.prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Mirror uploads the artifact and then the manifest. The local release is
// already complete; a failure here leaves the bucket one release behind.
func (m *S3Mirror) Mirror(ctx context.Context, res *Result) error {
	uploads := []struct {
		name string
		data []byte
	}{
		{res.Manifest.URL, res.Artifact},
		{catalog.ManifestFilename, res.ManifestData},
	}

	for _, u := range uploads {
		key := m.Key(u.name)
		_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(m.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(u.data),
			ContentType: aws.String(jsonContentType),
			Metadata: map[string]string{
				"catalog-version": res.Manifest.Version,
				"catalog-hash":    res.Manifest.Hash,
			},
		})
		if err != nil {
			return fmt.Errorf("mirror s3://%s/%s: %w", m.bucket, key, err)
		}
		m.logger.Debug("mirrored object",
			zap.String("bucket", m.bucket),
			zap.String("key", key),
			zap.Int("bytes", len(u.data)))
	}

	return nil
}
