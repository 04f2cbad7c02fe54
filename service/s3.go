package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Images stores images as objects under Prefix in an S3 bucket.
type S3Images struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Images(ctx context.Context, bucket, region, accessKeyID, secretAccessKey string) (*S3Images, error) {
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &S3Images{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: "book_imgs/",
	}, nil
}

func (s *S3Images) key(name string) string {
	return s.prefix + path.Base(path.Clean("/"+name))
}

func (s *S3Images) Save(ctx context.Context, name, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

// Open downloads the object. Caller must close the returned reader.
func (s *S3Images) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
		return nil, "", err
	}
	return out.Body, aws.ToString(out.ContentType), nil
}

func (s *S3Images) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}
