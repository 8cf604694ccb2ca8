package folders

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"motk/internal/logging"
)

// S3Options holds explicit construction parameters for the object-store
// provisioner. MinIO works through Endpoint plus PathStyle.
type S3Options struct {
	Bucket    string
	Region    string // default us-east-1
	Endpoint  string // optional custom endpoint
	Prefix    string // optional key prefix inside the bucket
	PathStyle bool
}

// S3 lays entity folders out as key prefixes in a single bucket. Folder
// creation writes a .keep marker; archival copies every object under the
// deleted prefix and removes the originals.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewS3 builds the client from the default AWS credential chain.
func NewS3(ctx context.Context, opts S3Options, logger *slog.Logger) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.PathStyle {
			o.UsePathStyle = true
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return &S3{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		logger: logging.NewComponentLogger(logger, "folders"),
		now:    time.Now,
	}, nil
}

func (s *S3) key(parts ...string) string {
	joined := strings.Join(parts, "/")
	if s.prefix == "" {
		return joined
	}
	return s.prefix + "/" + joined
}

func (s *S3) folderURL(key string) string {
	return fmt.Sprintf("s3://%s/%s/", s.bucket, strings.TrimSuffix(key, "/"))
}

func (s *S3) CreateEntityFolder(ctx context.Context, entityType, entityID string) (string, error) {
	marker := s.key(entityType, entityID, ".keep")
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &marker,
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return "", fmt.Errorf("create folder marker: %w", err)
	}
	s.logger.Debug("entity folder ready",
		logging.String(logging.FieldEntityType, entityType),
		logging.String(logging.FieldEntityID, entityID),
		logging.String("bucket", s.bucket))
	return s.folderURL(s.key(entityType, entityID)), nil
}

func (s *S3) MoveToDeleted(ctx context.Context, entityType, entityID string, metadata map[string]string) (string, error) {
	deletedAt := s.now()
	name := fmt.Sprintf("%s_%s_%s", deletedAt.UTC().Format("20060102-150405"), entityID, uuid.NewString()[:6])
	livePrefix := s.key(entityType, entityID) + "/"
	archivePrefix := s.key("deleted", entityType, name) + "/"

	keys, err := s.listKeys(ctx, livePrefix)
	if err != nil {
		return "", fmt.Errorf("list entity folder: %w", err)
	}
	for _, key := range keys {
		target := archivePrefix + strings.TrimPrefix(key, livePrefix)
		source := url.QueryEscape(s.bucket + "/" + key)
		if _, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     &s.bucket,
			CopySource: &source,
			Key:        &target,
		}); err != nil {
			return "", fmt.Errorf("copy %s to archive: %w", key, err)
		}
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
			return "", fmt.Errorf("remove %s after copy: %w", key, err)
		}
	}

	record, err := archiveMetadata(entityType, entityID, deletedAt, metadata)
	if err != nil {
		return "", err
	}
	metaKey := archivePrefix + "metadata.json"
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &metaKey,
		Body:   bytes.NewReader(record),
	}); err != nil {
		return "", fmt.Errorf("write archive metadata: %w", err)
	}
	s.logger.Info("entity folder archived",
		logging.String(logging.FieldEntityType, entityType),
		logging.String(logging.FieldEntityID, entityID),
		logging.Int("objects", len(keys)))
	return s.folderURL(strings.TrimSuffix(archivePrefix, "/")), nil
}

func (s *S3) listKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if out.IsTruncated != nil && *out.IsTruncated && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		return keys, nil
	}
}
