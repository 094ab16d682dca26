package helpers

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
)

// MaxImagePixels bounds the decoded size of an upload. Headers are checked
// before any pixel data is allocated.
const MaxImagePixels = 50_000_000

// allowed formats: content type -> file extension
var imageFormats = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ProcessedImage is an image ready for upload.
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// ProcessImage reads at most maxBytes from r, accepts only jpeg and png content
// and scales the picture down so it fits within maxW x maxH keeping its aspect
// ratio. Smaller pictures are never enlarged.
func ProcessImage(r io.Reader, maxBytes int64, maxW, maxH int) (*ProcessedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrImageTooLarge
	}

	contentType, ext, err := DetectImageFormat(data)
	if err != nil {
		return nil, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, ErrImageTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return &ProcessedImage{Data: data, ContentType: contentType, Ext: ext, Width: w, Height: h}, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, err
	}
	return &ProcessedImage{Data: buf.Bytes(), ContentType: contentType, Ext: ext, Width: w, Height: h}, nil
}

// DetectImageFormat sniffs the leading bytes of an image and returns its
// content type and file extension. Only jpeg and png are accepted.
func DetectImageFormat(head []byte) (contentType, ext string, err error) {
	mt := mimetype.Detect(head)
	for ct, e := range imageFormats {
		if mt.Is(ct) {
			return ct, e, nil
		}
	}
	return "", "", ErrUnsupportedImage
}

func fitWithin(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	if nw > maxW {
		nw = maxW
	}
	if nh > maxH {
		nh = maxH
	}
	return nw, nh
}
