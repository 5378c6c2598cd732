// Package archive mirrors committed source spreadsheets to S3-compatible object storage.
package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the S3 bucket settings. Credentials come from the default AWS chain.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; for MinIO and other S3-compatible stores
	PathStyle bool
	Prefix    string
}

// S3Archiver uploads files to a single bucket under a key prefix.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an archiver from Config.
func NewS3(ctx context.Context, cfg Config) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive: s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("archive: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3WithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client *s3.Client, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Archive uploads the file at localPath under prefix/key and returns the object key.
func (a *S3Archiver) Archive(ctx context.Context, key, localPath string) (string, error) {
	f, err := os.Open(localPath) //nolint:gosec // path comes from the committed source file
	if err != nil {
		return "", fmt.Errorf("archive: open %s: %w", localPath, err)
	}
	defer f.Close()

	objectKey := path.Join(strings.TrimSuffix(a.prefix, "/"), key)
	if a.prefix == "" {
		objectKey = key
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: put %s: %w", objectKey, err)
	}
	return objectKey, nil
}
