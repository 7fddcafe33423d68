package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ReportArchiver stores JSON run reports in object storage.
type ReportArchiver interface {
	Archive(ctx context.Context, objectName string, report any) error
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

type minioArchiver struct {
	client *minio.Client
	bucket string
}

func NewMinioArchiver(opts MinioOptions) (ReportArchiver, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	return &minioArchiver{client: client, bucket: opts.Bucket}, nil
}

func (m *minioArchiver) Archive(ctx context.Context, objectName string, report any) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	log.Debug().Str("bucket", m.bucket).Str("object", objectName).Msg("Archived report")
	return nil
}

func (m *minioArchiver) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioArchiver) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}

type noopArchiver struct{}

// NewNoopArchiver is used when object storage is not configured.
func NewNoopArchiver() ReportArchiver {
	return noopArchiver{}
}

func (noopArchiver) Archive(context.Context, string, any) error { return nil }
func (noopArchiver) EnsureBucketExists(context.Context) error    { return nil }
func (noopArchiver) Ping(context.Context) error                  { return nil }

// ReportObjectName returns the object key for a report of kind produced at t.
func ReportObjectName(kind string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s/%s/%s.json", kind, t.Format("2006/01/02"), t.Format("20060102T150405Z"))
}
