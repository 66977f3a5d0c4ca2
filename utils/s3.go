package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3PutAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads food photos and returns their public URL.
type S3ImageStore struct {
	client    s3PutAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3ImageStore(ctx context.Context, region, bucket, publicURL string) (*S3ImageStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET not set")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}
	return newS3ImageStore(s3.NewFromConfig(cfg), bucket, publicURL), nil
}

func newS3ImageStore(client s3PutAPI, bucket, publicURL string) *S3ImageStore {
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &S3ImageStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// Upload stores the image under food-images/<user>/<timestamp><ext>.
func (s *S3ImageStore) Upload(ctx context.Context, userID uint, img Image) (string, error) {
	key := fmt.Sprintf("food-images/%d/%d%s", userID, s.now().UnixNano(), img.Ext())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.MimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
