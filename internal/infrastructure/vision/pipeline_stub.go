//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"dental-vision/internal/domain/port"
)

// Pipeline is a stub used when the binary is built without OpenCV.
type Pipeline struct{}

// NewPipeline creates the stub pipeline (no OpenCV).
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Preprocess returns an error when built without the gocv tag.
func (p *Pipeline) Preprocess(ctx context.Context, imageData []byte) ([]float32, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// RenderHeatmap returns an error when built without the gocv tag.
func (p *Pipeline) RenderHeatmap(imageData []byte, scores []float32) ([]byte, error) {
	_ = imageData
	_ = scores
	return nil, errors.New("gocv build tag is not enabled")
}

// EnhanceForDisplay returns an error when built without the gocv tag.
func (p *Pipeline) EnhanceForDisplay(imageData []byte) ([]byte, error) {
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

var _ port.ImagePipeline = (*Pipeline)(nil)
