package file

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3API is the slice of the S3 client used by S3Storage. Tests substitute
// their own implementation via WithS3API.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures S3Storage. Endpoint and ForcePathStyle support
// S3-compatible services such as MinIO. When BaseURL is empty it is derived
// from the endpoint or the standard AWS URL for the bucket.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string
	BaseURL        string
	ForcePathStyle bool
}

// S3Option configures S3Storage construction.
type S3Option func(*S3Storage)

// WithS3API injects a pre-built client instead of dialing AWS.
func WithS3API(api S3API) S3Option {
	return func(s *S3Storage) { s.api = api }
}

// S3Storage stores blobs in a single S3 bucket. Safe for concurrent use.
type S3Storage struct {
	api     S3API
	bucket  string
	baseURL string // trailing slash
}

// NewS3Storage builds a storage for cfg.Bucket. Static credentials are used
// when provided, otherwise the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	s := &S3Storage{bucket: cfg.Bucket}
	for _, opt := range opts {
		opt(s)
	}

	if s.api == nil {
		loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("file: load aws config: %w", err)
		}
		s.api = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	baseURL := cfg.BaseURL
	switch {
	case baseURL != "":
	case cfg.Endpoint != "":
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	s.baseURL = baseURL
	return s, nil
}

// Save uploads the file under path with its sniffed content type.
func (s *S3Storage) Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	key, err := cleanObjectPath(path)
	if err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("file: open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	mimeType, err := detectMIME(fh)
	if err != nil {
		mimeType = "application/octet-stream"
	}

	if _, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(mimeType),
	}); err != nil {
		return nil, classifyS3Error("upload", err)
	}

	return &File{
		Filename:  SanitizeFilename(fh.Filename),
		Size:      fh.Size,
		MIMEType:  mimeType,
		Extension: GetExtension(fh),
		Path:      key,
	}, nil
}

// Delete removes an object. The object must exist; deleting an unknown key
// reports ErrNotFound instead of succeeding silently, matching LocalStorage.
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	key, err := cleanObjectPath(path)
	if err != nil {
		return err
	}
	if _, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return classifyS3Error("stat", err)
	}
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return classifyS3Error("delete", err)
	}
	return nil
}

// URL returns the public URL for an object.
func (s *S3Storage) URL(path string) string {
	return s.baseURL + strings.TrimPrefix(path, "/")
}

func classifyS3Error(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, op)
		}
	}
	return fmt.Errorf("file: %s: %w", op, err)
}
