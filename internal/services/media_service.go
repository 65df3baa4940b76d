package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/GabyPng/Happ/internal/models"
)

var (
	ErrMediaStorageDisabled = errors.New("media storage is not configured")
	ErrInvalidMediaKey      = errors.New("invalid media key")
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// MediaConfig locates the bucket that stores image, audio and video files.
type MediaConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PresignExpiry time.Duration
}

// MediaService hands out presigned URLs so clients move media bytes directly to object storage.
type MediaService struct {
	cfg MediaConfig
	now func() time.Time
}

// NewMediaService creates a new MediaService. An empty bucket disables it.
func NewMediaService(cfg MediaConfig) *MediaService {
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 15 * time.Minute
	}
	return &MediaService{cfg: cfg, now: time.Now}
}

// Enabled reports whether a bucket is configured.
func (s *MediaService) Enabled() bool {
	return s.cfg.Bucket != ""
}

// PresignedURL is a time limited URL for one object.
type PresignedURL struct {
	URL       string
	FileKey   string
	ExpiresAt time.Time
}

var mediaContentPrefixes = map[models.MemoryType]string{
	models.MemoryTypeImage: "image/",
	models.MemoryTypeAudio: "audio/",
	models.MemoryTypeVideo: "video/",
}

// StorageKey builds the object key for a new upload.
func StorageKey(memoryType models.MemoryType, userID uint64, at time.Time) string {
	return fmt.Sprintf("%s/%d/%d/%02d/%s", strings.ToLower(string(memoryType)), userID, at.Year(), at.Month(), uuid.New())
}

// PresignUpload returns a PUT URL and the key the client stores as the memory's filePath.
func (s *MediaService) PresignUpload(ctx context.Context, userID uint64, memoryType models.MemoryType, contentType string) (*PresignedURL, error) {
	if !s.Enabled() {
		return nil, ErrMediaStorageDisabled
	}

	prefix, ok := mediaContentPrefixes[memoryType]
	if !ok {
		return nil, invalid("memoryType", "memoryType must be one of: Image, Audio, Video")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, prefix) {
		return nil, invalid("contentType", "contentType must start with %s", prefix)
	}

	presignClient, err := s.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bucket := s.cfg.Bucket
	key := StorageKey(memoryType, userID, now)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.cfg.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedURL{URL: req.URL, FileKey: key, ExpiresAt: now.Add(s.cfg.PresignExpiry)}, nil
}

// PresignDownload returns a GET URL for a previously uploaded media key.
func (s *MediaService) PresignDownload(ctx context.Context, key string) (*PresignedURL, error) {
	if !s.Enabled() {
		return nil, ErrMediaStorageDisabled
	}
	if !validMediaKey(key) {
		return nil, ErrInvalidMediaKey
	}

	presignClient, err := s.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	bucket := s.cfg.Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign download: %w", err)
	}

	return &PresignedURL{URL: req.URL, FileKey: key, ExpiresAt: now.Add(s.cfg.PresignExpiry)}, nil
}

func (s *MediaService) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.cfg.Region)}
	if s.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.cfg.AccessKey, s.cfg.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return s3.NewPresignClient(client), nil
}

func validMediaKey(key string) bool {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return false
	}
	for _, prefix := range mediaContentPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
