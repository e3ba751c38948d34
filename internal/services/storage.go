package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// StorageService archives raw CV uploads.
type StorageService interface {
	SaveCV(ctx context.Context, token, filename string, data []byte) (string, error)
}

// ObjectKey names an archived upload: <token>/cv_<uuid><ext>.
func ObjectKey(token, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/cv_%s%s", token, uuid.New().String(), ext)
}

type localStorage struct {
	uploadPath string
}

// NewLocalStorage archives uploads under uploadPath.
func NewLocalStorage(uploadPath string) StorageService {
	return &localStorage{uploadPath: uploadPath}
}

// SaveCV implements StorageService.
func (s *localStorage) SaveCV(ctx context.Context, token, filename string, data []byte) (string, error) {
	key := ObjectKey(token, filename)
	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return key, nil
}

type r2Storage struct {
	client *s3.Client
	bucket string
}

// NewR2Storage archives uploads in a Cloudflare R2 bucket through the S3 API.
func NewR2Storage(ctx context.Context, accountID, bucket, accessKey, secretKey string) (StorageService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID))
	})

	return &r2Storage{client: client, bucket: bucket}, nil
}

// SaveCV implements StorageService.
func (s *r2Storage) SaveCV(ctx context.Context, token, filename string, data []byte) (string, error) {
	key := ObjectKey(token, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to r2: %w", key, err)
	}

	return key, nil
}
