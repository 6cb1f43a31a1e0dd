package app

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"dental-vision/internal/domain/entity"
)

// Accepted pixel dimensions per side.
const (
	MinImageSide = 100
	MaxImageSide = 5000
)

// supportedFormats are the decoded formats the pipeline accepts. Other
// registered decoders (gif, tiff, webp) exist only so that recognizable
// images fail with a format error instead of a decode error.
var supportedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"bmp":  true,
}

// ValidateImage checks an uploaded file before any processing happens.
// The check order is fixed: size, decodability, format, dimensions. The
// first failure wins. Only the image header is read, never the full
// pixel data.
func ValidateImage(content []byte, maxSize int64) error {
	if int64(len(content)) > maxSize {
		return &entity.ValidationError{
			Reason: fmt.Sprintf("file size exceeds maximum allowed size of %dMB", maxSize/(1024*1024)),
		}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return &entity.DecodeError{Reason: "invalid image file", Err: err}
	}

	if !supportedFormats[format] {
		return &entity.ValidationError{Reason: fmt.Sprintf("unsupported image format: %s", format)}
	}

	if cfg.Width < MinImageSide || cfg.Height < MinImageSide {
		return &entity.ValidationError{
			Reason: fmt.Sprintf("image dimensions too small (minimum %dx%d)", MinImageSide, MinImageSide),
		}
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide {
		return &entity.ValidationError{
			Reason: fmt.Sprintf("image dimensions too large (maximum %dx%d)", MaxImageSide, MaxImageSide),
		}
	}

	return nil
}
