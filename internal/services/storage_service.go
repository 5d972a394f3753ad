package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService is the upload collaborator: it moves bytes into object
// storage and produces the URLs the asset registry records. The registry
// itself never touches file contents.
type StorageService interface {
	EnsureBucketExists(ctx context.Context, bucketName string) error
	Upload(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error
	Delete(ctx context.Context, bucketName, objectName string) error
	GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error)
	PublicURL(bucketName, objectName string) string
}

type minioStorage struct {
	client        *minio.Client
	publicBaseURL string
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, publicBaseURL string) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	return &minioStorage{client: client, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioStorage) Upload(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStorage) Delete(ctx context.Context, bucketName, objectName string) error {
	return m.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
}

func (m *minioStorage) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(context.Background(), bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioStorage) PublicURL(bucketName, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicBaseURL, bucketName, objectName)
}

// VariantObjectKey derives the object key of an optimized image variant from
// the original key, e.g. photo.jpg -> photo_thumbnail.jpg.
func VariantObjectKey(objectName, sizeClass string) string {
	ext := filepath.Ext(objectName)
	base := strings.TrimSuffix(objectName, ext)
	return fmt.Sprintf("%s_%s%s", base, sizeClass, ext)
}
