// SPDX-License-Identifier: AGPL-3.0-or-later
// Package storage provides the template source store: a thin S3
// existence check used only to confirm a TemplateEmail's SourcePath
// still resolves to something, since rendering it is out of scope.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/btouchard/campaignd/pkg/logger"
)

// S3Config configures the bucket backing the template source store.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// TemplateStore is the template source store: Exists reports whether a
// key is present in the bucket, via HeadObject. Upload/Download are
// deliberately not implemented -- no operation in this spec writes
// template sources, only the Mailer reads them to validate existence.
type TemplateStore struct {
	client *s3.Client
	bucket string
}

// NewTemplateStore builds an S3-backed TemplateStore. Callers should
// only call this when cfg.Bucket is non-empty; an empty bucket means
// the store is deliberately disabled, handled by the caller rather
// than here.
func NewTemplateStore(ctx context.Context, cfg S3Config) (*TemplateStore, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	logger.Logger.Info("template source store initialized", "bucket", cfg.Bucket, "endpoint", cfg.Endpoint)

	return &TemplateStore{client: client, bucket: cfg.Bucket}, nil
}

// Exists implements email.TemplateSourceStore.
func (t *TemplateStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := t.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		// S3's HeadObject returns a modeled types.NotFound when the
		// bucket has a NoSuchKey handler configured; otherwise it
		// surfaces a bare 404 wrapped as a ResponseError. Check both,
		// since which one you get depends on the bucket/provider.
		var notFoundErr *types.NotFound
		if errors.As(err, &notFoundErr) {
			return false, nil
		}
		var respErr *smithyhttp.ResponseError
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
			return false, nil
		}
		return false, fmt.Errorf("failed to head template source: %w", err)
	}
	return true, nil
}
