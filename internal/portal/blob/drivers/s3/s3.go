// Package s3 is a blob.Store on any S3 compatible service (AWS, MinIO, R2).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Config selects the bucket and how to reach it.
type Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string // empty for AWS; set for MinIO / R2
	UsePathStyle bool   // MinIO needs path-style addressing
}

type Store struct {
	client *awss3.Client
	bucket string
}

// New builds the S3 client from cfg. Static credentials are used when
// AccessKey is set, otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = blob.DefaultContentType
	}

	// Payload signing over plain HTTP needs a seekable body.
	rs, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("s3: read body: %w", err)
		}
		rs = bytes.NewReader(data)
		size = int64(len(data))
	}

	in := &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        rs,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3: put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (*blob.Object, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isMissingObject(err) {
			return nil, blob.ErrNotFound
		}
		return nil, fmt.Errorf("s3: get %q: %w", key, err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" {
		contentType = blob.DefaultContentType
	}
	return &blob.Object{
		Body:        out.Body,
		ContentType: contentType,
		Size:        objectSize(out.ContentLength),
	}, nil
}

// Ping checks the bucket is reachable with the configured credentials.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("s3: head bucket %q: %w", s.bucket, err)
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist yet. Used for
// local MinIO setups.
func (s *Store) EnsureBucket(ctx context.Context) error {
	if err := s.Ping(ctx); err == nil {
		return nil
	} else if !isMissingBucket(err) {
		return err
	}

	_, err := s.client.CreateBucket(ctx, &awss3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("s3: create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// objectSize is -1 when S3 did not report a length.
func objectSize(n *int64) int64 {
	if n == nil {
		return -1
	}
	return *n
}

// isMissingObject reports a missing key. A missing bucket is a
// configuration error and does not count.
func isMissingObject(err error) bool {
	code := errorCode(err)
	if code == "NoSuchBucket" {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	return code == "NoSuchKey" || code == "NotFound"
}

// isMissingBucket reports a HeadBucket failure caused by an absent bucket.
func isMissingBucket(err error) bool {
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	switch errorCode(err) {
	case "NoSuchBucket", "NotFound":
		return true
	}

	// HeadBucket has no body, so some backends only give the status.
	var respErr interface{ HTTPStatusCode() int }
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
