// Package storage uploads user profile pictures to S3 (or any
// S3-compatible endpoint).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/studybuddy/backend/internal/config"
)

// ObjectStore is the upload surface the user usecase depends on.
type ObjectStore interface {
	// UploadProfilePicture stores the image and returns its public URL.
	UploadProfilePicture(ctx context.Context, userID int, data []byte, contentType, ext string) (string, error)

	// DeleteByURL removes a previously uploaded object given the public
	// URL stored on the user record. Unknown URLs are ignored.
	DeleteByURL(ctx context.Context, publicURL string) error
}

type s3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Store(ctx context.Context, cfg config.S3Config) (ObjectStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &s3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *s3Store) UploadProfilePicture(ctx context.Context, userID int, data []byte, contentType, ext string) (string, error) {
	key := fmt.Sprintf("profile-pictures/%d/%s%s", userID, uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload profile picture: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

func (s *s3Store) DeleteByURL(ctx context.Context, publicURL string) error {
	key, ok := strings.CutPrefix(publicURL, s.publicBaseURL+"/")
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete profile picture: %w", err)
	}
	return nil
}
