package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Leopold1975/notes_app/internal/notes/repository/imagestore"
	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ImageStore keeps profile images in an S3-compatible bucket.
type ImageStore struct {
	client *s3.Client
	bucket string
}

func New(ctx context.Context, cfg config.S3) (ImageStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return ImageStore{}, fmt.Errorf("load aws config error: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}

		o.UsePathStyle = cfg.PathStyle
	})

	is := ImageStore{
		client: client,
		bucket: cfg.Bucket,
	}

	if err := is.ensureBucket(ctx); err != nil {
		return ImageStore{}, err
	}

	return is, nil
}

func (is ImageStore) ensureBucket(ctx context.Context) error {
	_, err := is.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(is.bucket)})
	if err == nil {
		return nil
	}

	_, err = is.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(is.bucket)}) //nolint:exhaustruct
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}

		return fmt.Errorf("create bucket error: %w", err)
	}

	return nil
}

func (is ImageStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := is.client.PutObject(ctx, &s3.PutObjectInput{ //nolint:exhaustruct
		Bucket:        aws.String(is.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put object error: %w", err)
	}

	return nil
}

// Get returns the object body and its content type; the caller closes the body.
func (is ImageStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := is.client.GetObject(ctx, &s3.GetObjectInput{ //nolint:exhaustruct
		Bucket: aws.String(is.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", imagestore.ErrNotFound
		}

		return nil, "", fmt.Errorf("get object error: %w", err)
	}

	return out.Body, aws.ToString(out.ContentType), nil
}

func (is ImageStore) Delete(ctx context.Context, key string) error {
	_, err := is.client.DeleteObject(ctx, &s3.DeleteObjectInput{ //nolint:exhaustruct
		Bucket: aws.String(is.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object error: %w", err)
	}

	return nil
}
