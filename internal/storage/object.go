package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"videostudio/internal/domain"
)

// ObjectAPI is the subset of the S3 client used by ObjectStore.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ObjectOptions configures an S3-compatible bucket such as Cloudflare R2.
type ObjectOptions struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
	// Client overrides the S3 client built from the credentials above.
	Client ObjectAPI
}

// ObjectStore mirrors assets into a bucket under videos/{id}/{variant}.{ext}.
type ObjectStore struct {
	client  ObjectAPI
	bucket  string
	baseURL string
}

func NewObjectStore(opts ObjectOptions) (*ObjectStore, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("storage: public base url is required")
	}
	client := opts.Client
	if client == nil {
		if opts.AccessKeyID == "" || opts.SecretAccessKey == "" || opts.Endpoint == "" {
			return nil, fmt.Errorf("%w: object storage credentials", domain.ErrMissingConfig)
		}
		client = s3.New(s3.Options{
			Region:       "auto",
			BaseEndpoint: aws.String(opts.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
			UsePathStyle: true,
		})
	}
	return &ObjectStore{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (s *ObjectStore) Mode() domain.StorageMode { return domain.StorageModeR2 }

// Put uploads one variant and returns its public URL.
func (s *ObjectStore) Put(ctx context.Context, jobID string, variant domain.Variant, data []byte) (string, error) {
	key := variant.ObjectKey(jobID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(variant.ContentType()),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return s.URL(key), nil
}

// Remove deletes one variant. Objects that do not exist are ignored.
func (s *ObjectStore) Remove(ctx context.Context, jobID string, variant domain.Variant) error {
	key := variant.ObjectKey(jobID)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isObjectNotFound(err) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (s *ObjectStore) URL(key string) string {
	return s.baseURL + "/" + key
}

func isObjectNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
