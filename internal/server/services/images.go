package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/gophcollect/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// PresignedURL is a time-limited URL for a single object operation.
type PresignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// ImageStore hands out presigned URLs for collectible images and removes
// objects that are no longer referenced.
type ImageStore interface {
	PresignPut(ctx context.Context, key, contentType string) (*PresignedURL, error)
	PresignGet(ctx context.Context, key string) (*PresignedURL, error)
	Delete(ctx context.Context, key string) error
}

// PresignObserver is notified of every URL handed out; verb is "put" or "get".
type PresignObserver interface {
	ObservePresign(verb string)
}

// S3ImageStore is an ImageStore over an S3-compatible backend (MinIO in
// development). The client is built on first use.
type S3ImageStore struct {
	config   *sc.Config
	observer PresignObserver
	now      func() time.Time

	mu     sync.Mutex
	client *s3.Client
}

func NewS3ImageStore(cfg *sc.Config, observer PresignObserver) *S3ImageStore {
	return &S3ImageStore{config: cfg, observer: observer, now: time.Now}
}

// NewImageKey returns a fresh object key under the owner's prefix.
func NewImageKey(userID string, now time.Time) string {
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%v", userID, now.Year(), now.Month(), now.Day(), uuid.New())
}

func (s *S3ImageStore) getClient(ctx context.Context) (*s3.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return s.client, nil
}

func (s *S3ImageStore) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}
	return newS3PresignClient(client), nil
}

func (s *S3ImageStore) PresignPut(ctx context.Context, key, contentType string) (*PresignedURL, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	issued := s.now()
	req, err := presignPutObject(pc, ctx, in, s3.WithPresignExpires(s.config.PresignTTL))
	if err != nil {
		return nil, err
	}
	s.observe("put")
	return &PresignedURL{URL: req.URL, ExpiresAt: issued.Add(s.config.PresignTTL)}, nil
}

func (s *S3ImageStore) PresignGet(ctx context.Context, key string) (*PresignedURL, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	issued := s.now()
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.config.PresignTTL))
	if err != nil {
		return nil, err
	}
	s.observe("get")
	return &PresignedURL{URL: req.URL, ExpiresAt: issued.Add(s.config.PresignTTL)}, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}
	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3ImageStore) observe(verb string) {
	if s.observer != nil {
		s.observer.ObservePresign(verb)
	}
}
