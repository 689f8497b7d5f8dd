package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/campus-compass/calendar-manager/internal/errdef"
	"github.com/campus-compass/calendar-manager/pkg/config"
)

// NewAWSS3Client creates an S3 client for the configured region. A custom endpoint is used with path
// style addressing, which is what S3 compatible stores like localstack expect.
func NewAWSS3Client(ctx context.Context, c config.S3) (*s3.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(c.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3Client(logger *slog.Logger, uploader AWSS3Uploader, presigner AWSS3Presigner) *S3Client {
	return &S3Client{
		logger:    logger,
		uploader:  uploader,
		presigner: presigner,
	}
}

type S3Client struct {
	logger    *slog.Logger
	uploader  AWSS3Uploader
	presigner AWSS3Presigner
}

type AWSS3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type AWSS3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

func (s S3Client) Upload(ctx context.Context, bucket string, key string, body io.Reader, contentType string) error {
	// only use ctx for values (logging) and not cancellation signals. An upload that was started
	// should not be left half done because the client went away.
	ctx = context.WithoutCancel(ctx)

	s.logger.InfoContext(ctx, "Uploading", "bucket", bucket, "key", key)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return errdef.NewStorage("error uploading object to bucket %q using key %q: %w", bucket, key, err)
	}
	return nil
}

// PresignGet returns a URL granting read access to the object for the given duration.
func (s S3Client) PresignGet(ctx context.Context, bucket string, key string, expires time.Duration) (string, error) {
	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", errdef.NewStorage("error presigning object in bucket %q using key %q: %w", bucket, key, err)
	}
	return request.URL, nil
}
