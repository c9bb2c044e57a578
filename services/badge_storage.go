package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// BadgeStorageService keeps achievement and milestone badge images in
// object storage. Uploads return a presigned URL the admin surface
// stores on the definition.
type BadgeStorageService struct {
	appContext.DefaultService
	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

const BADGE_STORAGE_SVC = "badge_storage_svc"

const badgeURLExpiry = 7 * 24 * time.Hour

func (svc BadgeStorageService) Id() string {
	return BADGE_STORAGE_SVC
}

func (svc *BadgeStorageService) Configure(ctx *appContext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	if svc.endpoint == "" {
		svc.endpoint = "localhost:9000"
	}

	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	if svc.accessKey == "" {
		svc.accessKey = "admin"
	}

	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	if svc.secretKey == "" {
		svc.secretKey = "password123"
	}

	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "trilha-badges"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *BadgeStorageService) Start() error {
	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("Badge storage started with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *BadgeStorageService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created MinIO bucket: %s", svc.bucketName)
	}

	return nil
}

// UploadBadge stores a badge image under achievements/<id>/ and returns
// the object key plus a presigned URL.
func (svc *BadgeStorageService) UploadBadge(achievementID, filename string, reader io.Reader, size int64, contentType string) (objectKey, url string, err error) {
	ctx := context.Background()

	objectKey = path.Join("achievements", achievementID, filename)

	_, err = svc.client.PutObject(ctx, svc.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload badge: %v", err)
	}

	url, err = svc.BadgeURL(objectKey)
	if err != nil {
		return "", "", err
	}
	return objectKey, url, nil
}

func (svc *BadgeStorageService) BadgeURL(objectKey string) (string, error) {
	ctx := context.Background()

	presignedURL, err := svc.client.PresignedGetObject(ctx, svc.bucketName, objectKey, badgeURLExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %v", err)
	}

	return presignedURL.String(), nil
}

func (svc *BadgeStorageService) DeleteBadge(objectKey string) error {
	ctx := context.Background()

	err := svc.client.RemoveObject(ctx, svc.bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete badge: %v", err)
	}

	return nil
}

func (svc *BadgeStorageService) GetBucketName() string {
	return svc.bucketName
}
