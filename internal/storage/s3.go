// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"aicms/internal/apperr"
)

// S3Config holds the settings for an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // optional CDN or direct URL prefix for objects
}

// S3 stores files as public-read objects in a single bucket, using
// path-style addressing so it works with MinIO, Ceph and Hetzner.
type S3 struct {
	client    *s3.Client
	bucket    string
	endpoint  string
	publicURL string
	now       func() time.Time
}

// NewS3 creates an S3 provider. Endpoint, credentials and bucket are required.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 storage requires endpoint, access key, secret key and bucket")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	})

	return &S3{
		client:    client,
		bucket:    cfg.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

// Save uploads data under media/YYYY/MM/<uuid><ext>. The original name is
// kept as Filename; the random key avoids collisions.
func (p *S3) Save(ctx context.Context, data []byte, filename, mimeType string) (*FileMetadata, error) {
	name := sanitizeFilename(filename)
	key := fmt.Sprintf("media/%s/%s%s", p.now().UTC().Format("2006/01"), uuid.NewString(), strings.ToLower(filepath.Ext(name)))

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimeType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, &apperr.StorageError{Op: "s3 upload " + key, Err: err}
	}

	meta := &FileMetadata{
		Path:     key,
		Filename: name,
		Size:     int64(len(data)),
		Type:     mimeType,
	}
	probe(meta, data)
	return meta, nil
}

// Delete removes the object. A missing object counts as deleted.
func (p *S3) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err == nil || isMissingObject(err) {
		return nil
	}
	return &apperr.StorageError{Op: "s3 delete " + key, Err: err}
}

// URL returns the public URL for key. Uses the configured public URL if
// set, otherwise builds a path-style URL.
func (p *S3) URL(key string) string {
	if p.publicURL != "" {
		return p.publicURL + "/" + key
	}
	return p.endpoint + "/" + p.bucket + "/" + key
}

func isMissingObject(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
