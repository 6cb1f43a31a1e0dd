package port

import "context"

// ImagePipeline covers the image work around the classifier: preparing
// model input and rendering the visual artifacts.
type ImagePipeline interface {
	// Preprocess turns raw image bytes into the flattened normalized
	// tensor the classifier expects.
	Preprocess(ctx context.Context, imageData []byte) ([]float32, error)

	// RenderHeatmap produces the PNG overlay image for the given
	// confidence scores.
	RenderHeatmap(imageData []byte, scores []float32) ([]byte, error)

	// EnhanceForDisplay produces a high-contrast denoised grayscale PNG
	// for human viewing. Not part of the classifier path.
	EnhanceForDisplay(imageData []byte) ([]byte, error)
}
