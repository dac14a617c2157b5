package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

const (
	defaultRegion = "us-east-1"
	snapshotExt   = ".json"
	contentType   = "application/json"
)

// Config описывает подключение к S3-совместимому хранилищу (AWS S3, MinIO).
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // необязателен; задаётся для MinIO
	Prefix          string // префикс ключей, например "wms/"
	AccessKeyID     string // если пусто, используется цепочка учётных данных по умолчанию
	SecretAccessKey string
	PathStyle       bool
}

// objectAPI — подмножество клиента S3, которое нужно носителю.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Backend хранит снимок каждой коллекции объектом <prefix><name>.json.
type Backend struct {
	client objectAPI
	bucket string
	prefix string
}

// New создаёт клиент S3 из Config.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func newWithClient(client objectAPI, bucket, prefix string) *Backend {
	return &Backend{client: client, bucket: bucket, prefix: prefix}
}

// LoadAll перечисляет объекты под префиксом и декодирует каждый снимок.
func (b *Backend) LoadAll(ctx context.Context) (map[string]collection.Records, error) {
	result := make(map[string]collection.Records)

	var token *string
	for {
		out, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(b.bucket),
			Prefix:            aws.String(b.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			name, ok := b.nameFromKey(key)
			if !ok {
				continue
			}
			records, err := b.load(ctx, name, key)
			if err != nil {
				return nil, err
			}
			result[name] = records
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	return result, nil
}

func (b *Backend) load(ctx context.Context, name, key string) (collection.Records, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(b.bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return collection.DecodeSnapshot(name, data)
}

// Save перезаписывает объект коллекции; PutObject в S3 атомарен.
func (b *Backend) Save(ctx context.Context, name string, records collection.Records) error {
	data, err := collection.EncodeSnapshot(records)
	if err != nil {
		return err
	}
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", name, err)
	}
	return nil
}

// Remove удаляет объект коллекции. S3 не сообщает об отсутствии объекта.
func (b *Backend) Remove(ctx context.Context, name string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	})
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", name, err)
	}
	return nil
}

// Ping проверяет доступность бакета.
func (b *Backend) Ping(ctx context.Context) error {
	if _, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.bucket)}); err != nil {
		return fmt.Errorf("head bucket %s: %w", b.bucket, err)
	}
	return nil
}

func (b *Backend) Close() error { return nil }

func (b *Backend) key(name string) string {
	return b.prefix + name + snapshotExt
}

func (b *Backend) nameFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, b.prefix)
	if !ok || strings.Contains(rest, "/") {
		return "", false
	}
	name, ok := strings.CutSuffix(rest, snapshotExt)
	if !ok || !collection.ValidName(name) {
		return "", false
	}
	return name, true
}

var _ collection.Backend = (*Backend)(nil)
