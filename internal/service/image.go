// Package service contains the core analysis pipeline: image normalization
// and the model fallback chain.
package service

import (
	"errors"
	"fmt"

	"github.com/h2non/bimg"

	"github.com/artifactlab/artifact-service/internal/model"
)

// ErrUnsupportedFormat is returned for uploads that are not JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format (want JPEG or PNG)")

// NormalizedImage is an uploaded artifact image after decoding and
// normalization to a 3-channel sRGB representation.
type NormalizedImage struct {
	Data []byte
	MIME string
	Info model.ImageInfo
}

// NormalizeImage validates and normalizes an uploaded image. Only JPEG and
// PNG inputs are accepted; the output is always sRGB JPEG, which flattens
// any alpha channel onto a white background and guarantees three color
// channels for the provider.
//
// Uses bimg (Go bindings for libvips) — fast, but requires libvips as a
// system dependency.
func NormalizeImage(data []byte) (*NormalizedImage, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	format := bimg.DetermineImageTypeName(data)
	if format != "jpeg" && format != "png" {
		return nil, ErrUnsupportedFormat
	}

	img := bimg.NewImage(data)
	size, err := img.Size()
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	normalized, err := img.Process(bimg.Options{
		Type:           bimg.JPEG,
		Background:     bimg.Color{R: 255, G: 255, B: 255},
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, fmt.Errorf("normalizing image: %w", err)
	}

	return &NormalizedImage{
		Data: normalized,
		MIME: "image/jpeg",
		Info: model.ImageInfo{
			Width:  size.Width,
			Height: size.Height,
			Format: format,
		},
	}, nil
}
