// Package artifact mirrors accepted problem files to object storage.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sbenjam1n/rescuegen/internal/ledger"
)

// Config holds S3 construction parameters.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; for MinIO and other S3-compatible stores
	Prefix    string // key prefix, e.g. "corpora/v1"
	PathStyle bool
}

// S3 uploads each accepted problem under the same relative path it has in
// the local corpus.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	root   string
}

// NewS3 builds a mirror from cfg using the default AWS credential chain.
// root is the local corpus directory keys are made relative to.
func NewS3(ctx context.Context, cfg Config, root string) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3WithClient(client, cfg.Bucket, cfg.Prefix, root), nil
}

// NewS3WithClient wraps a preconfigured client.
func NewS3WithClient(client *s3.Client, bucket, prefix, root string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix, root: root}
}

// Key maps a local problem path to its object key.
func (m *S3) Key(localPath string) (string, error) {
	rel, err := filepath.Rel(m.root, localPath)
	if err != nil {
		return "", fmt.Errorf("relative key for %s: %w", localPath, err)
	}
	return path.Join(m.prefix, filepath.ToSlash(rel)), nil
}

// Publish uploads the entry's problem file.
func (m *S3) Publish(ctx context.Context, e ledger.Entry) error {
	body, err := os.ReadFile(e.Path)
	if err != nil {
		return fmt.Errorf("read problem file: %w", err)
	}
	key, err := m.Key(e.Path)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/x-pddl"),
		Metadata: map[string]string{
			"fingerprint": e.Fingerprint.String(),
			"split":       string(e.Split),
			"index":       strconv.Itoa(e.Index),
			"run-id":      e.RunID,
		},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
