package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hupe1980/skfactor/blobstore"
	"github.com/hupe1980/skfactor/blobstore/minio"
	"github.com/hupe1980/skfactor/blobstore/s3"
)

// openStore resolves a snapshot destination URL.
//
//	file:///var/lib/skfactor
//	s3://bucket/prefix
//	minio://localhost:9000/bucket/prefix
//
// MinIO credentials come from MINIO_ACCESS_KEY and MINIO_SECRET_KEY;
// MINIO_SECURE=true enables TLS. S3 uses the default AWS credential chain.
func openStore(ctx context.Context, dest string) (blobstore.BlobStore, error) {
	u, err := url.Parse(dest)
	if err != nil {
		return nil, fmt.Errorf("parse output %q: %w", dest, err)
	}

	switch u.Scheme {
	case "file", "":
		dir := u.Path
		if u.Host != "" {
			dir = u.Host + u.Path
		}
		if dir == "" {
			return nil, fmt.Errorf("output %q has no directory", dest)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return blobstore.NewLocalStore(dir), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("output %q has no bucket", dest)
		}
		store, err := s3.New(ctx, u.Host, s3.WithPrefix(strings.Trim(u.Path, "/")))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return nil, fmt.Errorf("output %q wants minio://endpoint/bucket[/prefix]", dest)
		}
		client, err := minio.Dial(u.Host, os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), os.Getenv("MINIO_SECURE") == "true")
		if err != nil {
			return nil, err
		}
		return minio.NewStore(client, bucket, strings.Trim(prefix, "/")), nil
	default:
		return nil, fmt.Errorf("unsupported output scheme %q", u.Scheme)
	}
}
