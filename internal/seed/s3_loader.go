package seed

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for gzipped seed files stored in AWS S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based seed loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-seed-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 seed loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load reads a gzipped seed file from S3 and returns its product records.
// The path parameter is the full S3 key.
func (l *s3Loader) Load(ctx context.Context, path string) ([]ProductRecord, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", path).
		Msg("loading seed file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		l.logger.Error().Err(err).
			Str("bucket", l.bucket).
			Str("key", path).
			Msg("failed to get seed object from S3")
		return nil, fmt.Errorf("failed to get seed object s3://%s/%s: %w", l.bucket, path, err)
	}
	defer result.Body.Close()

	records, err := decodeRecords(ctx, result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed object s3://%s/%s: %w", l.bucket, path, err)
	}

	l.logger.Info().
		Str("key", path).
		Int("count", len(records)).
		Msg("seed file loaded from S3")

	return records, nil
}
