package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/realestate-site/pkg/logging"
)

// S3API is the subset of the S3 client used by S3Publisher.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads artifacts to a bucket, optionally under a key prefix.
type S3Publisher struct {
	bucket   string
	prefix   string
	s3Client S3API
	logger   *logging.Logger
}

// NewS3Publisher returns nil when the client or bucket is missing.
func NewS3Publisher(s3Client S3API, bucket, prefix string, logger *logging.Logger) *S3Publisher {
	if s3Client == nil || strings.TrimSpace(bucket) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Publisher{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		s3Client: s3Client,
		logger:   logger,
	}
}

func (p *S3Publisher) key(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

// Publish puts a under its key with a one-hour cache lifetime.
func (p *S3Publisher) Publish(ctx context.Context, a Artifact) error {
	key := p.key(a.Name)
	_, err := p.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(a.Body),
		ContentType:  aws.String(a.ContentType),
		CacheControl: aws.String("public, max-age=3600"),
	})
	if err != nil {
		return fmt.Errorf("publish: s3 put %s: %w", key, err)
	}
	p.logger.Info("published artifact to S3", "bucket", p.bucket, "key", key, "bytes", len(a.Body))
	return nil
}
