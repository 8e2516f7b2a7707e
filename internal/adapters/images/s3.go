package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"vapaweb/internal/domain"
)

// MaxUploadSize is the upload limit for event cover images.
const MaxUploadSize = 5 * 1024 * 1024 // 5MB

// ErrInvalidUpload marks uploads rejected before reaching storage, such as
// a disallowed content type or an oversized file.
var ErrInvalidUpload = errors.New("invalid upload")

// allowedContentTypes are the image types accepted for upload.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// S3Config holds configuration for the image bucket. Endpoint and path
// style support S3-compatible stores (MinIO, Supabase storage, etc.).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the origin under which uploaded objects are served.
	PublicBaseURL string
}

type s3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader returns an ImageUploader that stores event cover images in
// an S3-compatible bucket and returns their public URL.
func NewS3Uploader(cfg S3Config) domain.ImageUploader {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}
}

func (u *s3Uploader) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !allowedContentTypes[contentType] {
		return "", fmt.Errorf("%w: file type %q, allowed: JPEG, PNG, WebP, GIF", ErrInvalidUpload, contentType)
	}
	if size > MaxUploadSize {
		return "", fmt.Errorf("%w: file too large, maximum size is %dMB", ErrInvalidUpload, MaxUploadSize/(1024*1024))
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
}
