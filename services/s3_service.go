package services

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// InitializeS3Client initializes the S3 client
func InitializeS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

// S3PhotoService resolves stored photo keys into short-lived presigned
// read URLs. Photo upload and storage live outside this service; we only
// need readable URLs for profile cards and match payloads.
type S3PhotoService struct {
	Presigner *s3.PresignClient
	Bucket    string
}

// NewS3PhotoService builds the presigner from an S3 client and the
// S3_BUCKET_NAME env var.
func NewS3PhotoService(client *s3.Client) *S3PhotoService {
	return &S3PhotoService{
		Presigner: s3.NewPresignClient(client),
		Bucket:    os.Getenv("S3_BUCKET_NAME"),
	}
}

// PhotoURL generates a presigned URL for reading a photo key.
func (s *S3PhotoService) PhotoURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigned, err := s.Presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}
