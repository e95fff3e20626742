package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/inkwell/config"
	"github.com/rs/zerolog/log"
)

const avatarPrefix = "avatars/"

// ObjectClient is the part of the S3 client used for avatars.
type ObjectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client    ObjectClient
	bucket    string
	publicURL string
}

func NewS3Store(ctx context.Context, c map[string]string, bucket, publicURL string) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region := config.GetString(c, "AWS_REGION", ""); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, awsCfg.Region)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(awsCfg), bucket, publicURL), nil
}

func NewS3StoreWithClient(client ObjectClient, bucket, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *S3Store) Save(ctx context.Context, filename string, body io.Reader, size int64) (string, error) {
	name, contentType, reader, err := objectName(filename, body)
	if err != nil {
		return "", err
	}

	key := avatarPrefix + name
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload avatar to s3: %w", err)
	}

	log.Debug().Str("bucket", s.bucket).Str("key", key).Msg("Avatar uploaded")
	return s.publicURL + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, s.publicURL+"/")
	if !strings.HasPrefix(key, avatarPrefix) {
		return fmt.Errorf("avatar %q does not belong to bucket %s", ref, s.bucket)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete avatar from s3: %w", err)
	}
	return nil
}
