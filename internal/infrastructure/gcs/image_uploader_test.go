package gcs

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aros-club/aros-api/pkg/helpers"
)

func newTestUploader(put putFunc) *ImageUploader {
	return &ImageUploader{
		opts:   Options{Bucket: "bucket", Folder: "images", MaxWidth: 500, MaxHeight: 500, MaxBytes: 1 << 20},
		put:    put,
		remove: func(context.Context, string) error { return nil },
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUploadStoresProcessedImage(t *testing.T) {
	var gotPath, gotType string
	var stored []byte
	u := newTestUploader(func(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
		gotPath, gotType = objectPath, contentType
		stored, _ = io.ReadAll(r)
		return helpers.PublicURL("bucket", objectPath), nil
	})

	img, err := u.Upload(context.Background(), bytes.NewReader(pngBytes(t, 800, 800)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(gotPath, "images/"))
	require.True(t, strings.HasSuffix(gotPath, ".png"))
	require.Equal(t, "image/png", gotType)
	require.Equal(t, gotPath, img.ID)
	require.Equal(t, "https://storage.googleapis.com/bucket/"+gotPath, img.URL)

	cfg, err := png.DecodeConfig(bytes.NewReader(stored))
	require.NoError(t, err)
	require.Equal(t, 500, cfg.Width)
	require.Equal(t, 500, cfg.Height)
}

func TestUploadRejectsBeforeStoring(t *testing.T) {
	called := false
	u := newTestUploader(func(context.Context, string, string, io.Reader) (string, error) {
		called = true
		return "", nil
	})
	_, err := u.Upload(context.Background(), strings.NewReader("GIF89a not really"))
	require.ErrorIs(t, err, helpers.ErrUnsupportedImage)
	require.False(t, called)
}

func TestUploadStorageFailure(t *testing.T) {
	boom := errors.New("gcs down")
	u := newTestUploader(func(context.Context, string, string, io.Reader) (string, error) { return "", boom })
	_, err := u.Upload(context.Background(), bytes.NewReader(pngBytes(t, 10, 10)))
	require.ErrorIs(t, err, boom)
}
