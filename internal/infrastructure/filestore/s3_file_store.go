package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path"
	"regexp"
	"strings"

	"translation_desk/internal/config"
	"translation_desk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrMissingBucket = errors.New("missing s3 bucket")

// s3API is the subset of *s3.Client the store needs.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3FileStore keeps quote documents in a bucket. The object key doubles as the
// provider id used for deletion.
//
// Keys look like <prefix><uuid>/<sanitized filename>, so two uploads never collide.
type S3FileStore struct {
	client  s3API
	bucket  string
	prefix  string
	baseURL string
}

var _ interfaces.IFileStore = (*S3FileStore)(nil)

// NewS3Client creates the S3 client. A non-empty endpoint targets MinIO or LocalStack.
func NewS3Client(awsCfg aws.Config, cfg config.S3Config) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
}

func NewS3FileStore(client s3API, cfg config.S3Config, region string) (*S3FileStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrMissingBucket
	}
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		switch {
		case cfg.Endpoint != "":
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}
	return &S3FileStore{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.KeyPrefix,
		baseURL: base,
	}, nil
}

func (s *S3FileStore) Upload(ctx context.Context, content []byte, filename, mimeType string) (interfaces.UploadResult, error) {
	key := s.prefix + uuid.NewString() + "/" + sanitizeFilename(filename)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(mimeType),
		Metadata: map[string]string{
			"original-filename": url.QueryEscape(filename),
		},
	})
	if err != nil {
		log.Printf("[storage][s3] upload failed key=%s err=%v", key, err)
		return interfaces.UploadResult{}, err
	}
	log.Printf("[storage][s3] uploaded key=%s bytes=%d", key, len(content))
	return interfaces.UploadResult{URL: s.objectURL(key), ProviderID: key}, nil
}

func (s *S3FileStore) Delete(ctx context.Context, providerID string) error {
	if providerID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(providerID),
	})
	if err != nil {
		log.Printf("[storage][s3] delete failed key=%s err=%v", providerID, err)
		return err
	}
	return nil
}

func (s *S3FileStore) objectURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(parts, "/")
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}
