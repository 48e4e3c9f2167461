// Package publisher mirrors published pages to an S3-compatible bucket as
// static HTML at sites/<slug>/index.html.
package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

const sitePrefix = "sites"

// Config addresses the bucket. BaseEndpoint is set for MinIO and other
// S3-compatible hosts, which are addressed path-style.
type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	RootUser     string
	RootPassword string
}

// Renderer produces the HTML document for a page.
type Renderer interface {
	RenderDocument(w io.Writer, p models.Page, description string) error
}

type objectClient interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Publisher struct {
	client objectClient
	bucket string
	render Renderer
	log    logging.Logger
}

// New builds an S3 client with static credentials from cfg.
func New(ctx context.Context, cfg Config, render Renderer, log logging.Logger) (*S3Publisher, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newPublisher(client, cfg.Bucket, render, log), nil
}

func newPublisher(client objectClient, bucket string, render Renderer, log logging.Logger) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, render: render, log: log.With("module", "publisher")}
}

// ObjectKey is where the site for slug is stored.
func ObjectKey(slug string) string {
	return path.Join(sitePrefix, slug, "index.html")
}

// Put renders p and uploads it under its slug.
func (s *S3Publisher) Put(ctx context.Context, p models.SavedPage) error {
	if p.Slug == "" {
		return fmt.Errorf("page %s has no slug", p.ID)
	}

	var buf bytes.Buffer
	if err := s.render.RenderDocument(&buf, p.Page, p.Description); err != nil {
		return fmt.Errorf("render page %s: %w", p.ID, err)
	}

	key := ObjectKey(p.Slug)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Info(ctx, "site uploaded", "bucket", s.bucket, "key", key)
	return nil
}

// Remove deletes the site for slug. Deleting a missing object succeeds.
func (s *S3Publisher) Remove(ctx context.Context, slug string) error {
	key := ObjectKey(slug)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.log.Info(ctx, "site removed", "bucket", s.bucket, "key", key)
	return nil
}
