package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"time"

	"alcyxob/group-fitness/internal/config"
	"alcyxob/group-fitness/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	log "github.com/sirupsen/logrus"
)

const jsonContentType = "application/json"

// objectAPI is the subset of *s3.Client used by the backend.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Backend stores each collection as one JSON object in an S3-compatible
// bucket, under "<prefix>/<collection>.json".
type S3Backend struct {
	client        objectAPI
	presignClient *s3.PresignClient
	bucketName    string
	prefix        string
}

var (
	_ repository.Backend = (*S3Backend)(nil)
	_ SnapshotLinker     = (*S3Backend)(nil)
)

// NewS3Backend creates a new S3 backend instance.
func NewS3Backend(ctx context.Context, cfg config.S3Config) (*S3Backend, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 backend requires a bucket name")
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Errorf("failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		// Custom endpoints are S3-compatible services (MinIO, Spaces);
		// they need path-style addressing.
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Infof("S3 backend initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &S3Backend{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		prefix:        cfg.Prefix,
	}, nil
}

// ObjectKey returns the object key holding a collection.
func (s *S3Backend) ObjectKey(collection string) string {
	return path.Join(s.prefix, collection+".json")
}

// Load downloads the collection object. A missing object is an empty
// collection.
func (s *S3Backend) Load(ctx context.Context, collection string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.ObjectKey(collection)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Save uploads the collection object, replacing any previous version.
func (s *S3Backend) Save(ctx context.Context, collection string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.ObjectKey(collection)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(jsonContentType),
	})
	if err != nil {
		log.Errorf("failed to put object '%s': %v", s.ObjectKey(collection), err)
	}
	return err
}

// SnapshotURL creates a temporary URL for downloading (GET) a collection.
func (s *S3Backend) SnapshotURL(ctx context.Context, collection string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	if s.presignClient == nil {
		return "", errors.New("presigning is not configured")
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.ObjectKey(collection)),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Errorf("failed to generate presigned GET URL for key '%s': %v", s.ObjectKey(collection), err)
		return "", err
	}
	return req.URL, nil
}
