package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ObjectAPI is the subset of the S3 client used by s3Storage.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Storage implements Storage with one S3 object per key.
type s3Storage struct {
	client ObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Storage creates an S3-backed storage using the default AWS credential chain.
func NewS3Storage(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Storage, error) {
	logger = logger.With().Str("component", "s3-snapshot").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 snapshot storage initialised")

	return NewS3StorageWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// NewS3StorageWithClient creates an S3-backed storage around an existing client.
func NewS3StorageWithClient(client ObjectAPI, bucket, prefix string, logger zerolog.Logger) Storage {
	return &s3Storage{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

func (s *s3Storage) key(key string) string {
	return s.prefix + key + ".json"
}

// Load fetches the object for key; a missing object maps to ErrNotFound.
func (s *s3Storage) Load(ctx context.Context, key string) ([]byte, error) {
	objectKey := s.key(key)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", objectKey).
			Msg("failed to get snapshot from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, objectKey, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", objectKey, err)
	}
	return data, nil
}

// Save uploads data as the object for key.
func (s *s3Storage) Save(ctx context.Context, key string, data []byte) error {
	objectKey := s.key(key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", objectKey).
			Msg("failed to put snapshot to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, objectKey, err)
	}

	s.logger.Debug().Str("key", objectKey).Int("bytes", len(data)).Msg("snapshot uploaded")
	return nil
}
