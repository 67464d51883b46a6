package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/config"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// ObjectGetter is the part of the S3 client the CSV connector needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from the configured region, optional
// static credentials, and optional custom endpoint.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.EndpointURL != "" {
		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true // MinIO and similar services
		}), nil
	}
	return s3.NewFromConfig(awsCfg), nil
}

// ProductsCSV downloads the products file from object storage and parses
// it as CSV. The unnamed leading column written by the producer is named
// "index".
func ProductsCSV(ctx context.Context, client ObjectGetter, bucket, key string) (*table.Table, error) {
	logging.Info().
		Str("bucket", bucket).
		Str("key", key).
		Msg("Downloading file from S3")

	obj, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer obj.Body.Close()

	reader := csv.NewReader(obj.Body)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, name := range header {
		if name == "" {
			header[i] = "index"
		}
	}

	t := table.New(header...)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		if err := t.AppendRow(record...); err != nil {
			return nil, err
		}
	}
	logging.Info().Int("rows", t.Len()).Msg("Records loaded")
	return t, nil
}
