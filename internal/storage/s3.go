package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
)

// Config describes an S3 compatible bucket. Setting AccountID targets Cloudflare R2.
type Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// objectAPI is the subset of the S3 client the uploader calls.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Uploader struct {
	client        objectAPI
	bucket        string
	publicBaseURL string
}

var _ FileUploader = (*s3Uploader)(nil)

// NewS3Uploader creates an uploader for cfg.
func NewS3Uploader(ctx context.Context, cfg Config) (FileUploader, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" || cfg.PublicBaseURL == "" {
		return nil, errors.New("invalid storage configuration: access key, secret, bucket and public URL are required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	}
	if cfg.AccountID != "" {
		opts = append(opts, awsconfig.WithRegion("auto"))
	}
	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		if cfg.AccountID != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		}
	})
	return newUploader(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func newUploader(client objectAPI, bucket, publicBaseURL string) *s3Uploader {
	return &s3Uploader{client: client, bucket: bucket, publicBaseURL: publicBaseURL}
}

func (u *s3Uploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	log.Info("Uploaded object", "bucket", u.bucket, "key", key)
	return PublicURL(u.publicBaseURL, key)
}

func (u *s3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	log.Info("Deleted object", "bucket", u.bucket, "key", key)
	return nil
}

// PublicURL joins the bucket's public base URL and an object key.
func PublicURL(base, key string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid public base URL: %w", err)
	}
	return u.JoinPath(strings.TrimPrefix(key, "/")).String(), nil
}

// KeyFromURL returns the object key of a URL produced by PublicURL, or "" if
// the URL does not belong to base.
func KeyFromURL(base, objectURL string) string {
	prefix := strings.TrimSuffix(base, "/") + "/"
	if base == "" || !strings.HasPrefix(objectURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(objectURL, prefix)
}
