package gcs

import (
	"bytes"
	"context"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/pkg/helpers"
)

// Options bounds what the uploader accepts.
type Options struct {
	Bucket    string
	Folder    string
	MaxWidth  int
	MaxHeight int
	MaxBytes  int64
}

type putFunc func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
type removeFunc func(ctx context.Context, objectPath string) error

// ImageUploader stores news images in a GCS bucket. Only jpeg and png are
// accepted and pictures are scaled down to fit the configured box.
type ImageUploader struct {
	opts   Options
	put    putFunc
	remove removeFunc
}

func NewImageUploader(client *storage.Client, opts Options) *ImageUploader {
	return &ImageUploader{
		opts: opts,
		put: func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
			return helpers.UploadObject(ctx, client, opts.Bucket, objectPath, contentType, r)
		},
		remove: func(ctx context.Context, objectPath string) error {
			return helpers.DeleteObject(ctx, client, opts.Bucket, objectPath)
		},
	}
}

// Upload processes the image read from r and stores it under a fresh name.
// The returned ID is the object path inside the bucket.
func (u *ImageUploader) Upload(ctx context.Context, r io.Reader) (entity.Image, error) {
	img, err := helpers.ProcessImage(r, u.opts.MaxBytes, u.opts.MaxWidth, u.opts.MaxHeight)
	if err != nil {
		return entity.Image{}, err
	}
	objectPath := path.Join(u.opts.Folder, uuid.NewString()+img.Ext)
	url, err := u.put(ctx, objectPath, img.ContentType, bytes.NewReader(img.Data))
	if err != nil {
		return entity.Image{}, err
	}
	return entity.Image{URL: url, ID: objectPath}, nil
}

// Delete removes a previously uploaded image. Missing objects are ignored.
func (u *ImageUploader) Delete(ctx context.Context, id string) error {
	return u.remove(ctx, id)
}
