package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/imagineread/lite-backend/internal/modules/storage/domain"
)

// S3Config holds configuration for S3-compatible storage (Cloudflare R2 in
// production, MinIO for local testing).
type S3Config struct {
	BucketName string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string

	// FreeExpiry is the scheduled lifetime of free-tier objects. Uploads on
	// the free tier are tagged with their expiry so the object store or an
	// external sweeper can clean up cooperatively. Best-effort metadata only.
	FreeExpiry time.Duration
}

// S3Storage implements the storage backend on an S3-compatible object store.
type S3Storage struct {
	client *s3.Client
	config S3Config
	logger *slog.Logger
	now    func() time.Time
}

// NewS3Storage creates a new S3 storage backend. Construction fails fast on
// bad configuration; per the startup contract this aborts the service.
func NewS3Storage(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Storage, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.AccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for R2 and MinIO
		}
	})

	logger.Info("object storage initialized", "bucket", cfg.BucketName)

	return &S3Storage{
		client: client,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Upload puts the content into the bucket under {tier}/{code}/{filename} with
// a content type derived from the filename extension.
func (s *S3Storage) Upload(ctx context.Context, content []byte, code, filename string, isPremium bool) (string, error) {
	storagePath := domain.ObjectKey(code, filename, isPremium)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(storagePath),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(domain.ContentTypeFor(filename)),
	}
	if !isPremium && s.config.FreeExpiry > 0 {
		expiresAt := s.now().UTC().Add(s.config.FreeExpiry)
		input.Tagging = aws.String("expires-at=" + url.QueryEscape(expiresAt.Format(time.RFC3339)))
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to object store: %w", err)
	}

	s.logger.Info("uploaded", "path", storagePath, "bytes", len(content))
	return storagePath, nil
}

// Get fetches the object, mapping the store's missing-key error to
// ErrObjectNotFound.
func (s *S3Storage) Get(ctx context.Context, storagePath string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(storagePath),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return content, nil
}

// DownloadURL routes through the API download endpoint so the client-facing
// contract is identical to the filesystem variant. Direct presigning is
// available separately via PresignDownload.
func (s *S3Storage) DownloadURL(storagePath string, expiry time.Duration) string {
	return domain.APIDownloadURL(storagePath)
}

// PresignDownload generates a capability-scoped, time-limited URL for direct
// object-store access, bypassing the API download indirection.
func (s *S3Storage) PresignDownload(ctx context.Context, storagePath, filename string, expiry time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)

	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.config.BucketName),
		Key:                        aws.String(storagePath),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return req.URL, nil
}

// Delete removes the object. Object-store deletes are idempotent; transport
// errors are reported as false.
func (s *S3Storage) Delete(ctx context.Context, storagePath string) bool {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(storagePath),
	})
	if err != nil {
		s.logger.Warn("failed to delete object", "path", storagePath, "error", err)
		return false
	}

	s.logger.Info("deleted", "path", storagePath)
	return true
}

// Exists probes with a HEAD request; any error reads as absent.
func (s *S3Storage) Exists(ctx context.Context, storagePath string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.BucketName),
		Key:    aws.String(storagePath),
	})
	return err == nil
}

// isNotFound matches the missing-object errors returned by GetObject and
// HeadObject across S3-compatible stores.
func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}
	// R2 occasionally surfaces the raw code instead of the typed error.
	return strings.Contains(err.Error(), "NoSuchKey")
}
