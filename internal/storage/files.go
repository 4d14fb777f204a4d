// Package storage persists uploaded files (property images, resumes) and
// returns the public URL they are served from. Two backends: local disk for
// development and an S3-compatible bucket for production.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bomalink/bomalink/internal/config"
)

// FileStore saves a named file and returns its public URL.
type FileStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// New selects the backend from config: S3 when a bucket is set, local disk
// otherwise.
func New(cfg *config.Config) (FileStore, error) {
	if cfg.S3Configured() {
		return NewS3Store(cfg)
	}
	return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
}

// LocalStore writes files under dir and serves them from baseURL/uploads/.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *LocalStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	// name is generated by the caller (uuid + extension); reject anything
	// that could escape the upload dir.
	if name != filepath.Base(name) {
		return "", fmt.Errorf("storage: invalid file name %q", name)
	}

	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return l.baseURL + "/uploads/" + name, nil
}

// S3Store puts objects into a bucket on an S3-compatible endpoint.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(cfg *config.Config) (*S3Store, error) {
	awscfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awscfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	base := strings.TrimRight(cfg.S3BaseEndpoint, "/")
	return &S3Store{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: fmt.Sprintf("%s/%s", base, cfg.S3Bucket),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	key := "uploads/" + name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put object: %w", err)
	}

	return s.baseURL + "/" + key, nil
}
