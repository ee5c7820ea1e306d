// Package s3 uploads leadbook exports to S3-compatible object storage
// (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fwojciec/leadbook"
)

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// ContentType is set on every uploaded export.
const ContentType = "text/csv; charset=utf-8"

var _ leadbook.ExportStore = (*ExportStore)(nil)

// Config holds construction parameters. Credentials fall back to the
// default AWS chain when AccessKeyID is empty.
type Config struct {
	Region          string
	Endpoint        string // optional; enables a custom endpoint such as MinIO
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string

	// HTTPClient replaces the SDK's client. Used by tests.
	HTTPClient *http.Client
}

// ExportStore implements leadbook.ExportStore on S3.
type ExportStore struct {
	client *awss3.Client
}

// New creates an ExportStore from cfg.
func New(ctx context.Context, cfg Config) (*ExportStore, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, leadbook.Errorf(leadbook.EUNAVAILABLE, "load AWS config: %v", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// S3-compatible servers often reject streaming checksum trailers.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &ExportStore{client: client}, nil
}

// PutExport uploads body as a CSV object.
func (s *ExportStore) PutExport(ctx context.Context, bucket, key string, body []byte) error {
	if bucket == "" || key == "" {
		return leadbook.Errorf(leadbook.EINVALID, "bucket and key required")
	}

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return leadbook.Errorf(leadbook.ENETWORK, "upload s3://%s/%s: %v", bucket, key, err)
	}
	return nil
}

// IsURL reports whether raw names an S3 object.
func IsURL(raw string) bool {
	return strings.HasPrefix(raw, "s3://")
}

// ParseURL splits an s3://bucket/key URL. A missing key, or one ending in
// "/", is completed with name.
func ParseURL(raw, name string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", leadbook.Errorf(leadbook.EINVALID, "invalid S3 URL %q: want s3://bucket/key", raw)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		key += name
	}
	return u.Host, key, nil
}
