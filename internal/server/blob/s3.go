package blob

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/skorolevs/clipvault/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Store stores blobs in an S3-compatible backend (MinIO, AWS) and returns
// path-style URLs under the configured base endpoint.
type S3Store struct {
	client       *s3.Client
	bucket       string
	baseEndpoint string
}

// NewS3Store builds an S3 client from the server config using static
// credentials and a custom base endpoint.
func NewS3Store(ctx context.Context, cfg *sc.Config) (*S3Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,     // MINIO_ROOT_USER
			cfg.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:       client,
		bucket:       cfg.S3Bucket,
		baseEndpoint: cfg.S3BaseEndpoint,
	}, nil
}

// GetStorageKey generates a collision-free object key: the target folder, a
// nanosecond timestamp, a random UUID, and the original file extension. The
// client-supplied name is never reused verbatim.
func GetStorageKey(folder, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%d-%s%s", folder, time.Now().UnixNano(), uuid.New(), ext)
}

// Upload writes data to the bucket under a generated key and returns the
// object's retrieval URL.
func (s *S3Store) Upload(ctx context.Context, data []byte, fileName string, folder string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}

	key := GetStorageKey(folder, fileName)

	_, err := putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}

	u, err := url.JoinPath(s.baseEndpoint, s.bucket, key)
	if err != nil {
		return "", fmt.Errorf("building object url: %w", err)
	}

	return u, nil
}
