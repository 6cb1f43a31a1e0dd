//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"dental-vision/internal/domain/entity"
	"dental-vision/internal/domain/port"
)

const (
	// inputSide is the classifier's square input resolution.
	inputSide = 224
	// displaySide is the heatmap output resolution, independent of the
	// classifier input.
	displaySide = 512

	claheClipLimit   = 2.0
	displayClipLimit = 3.0
	claheTileSize    = 8

	heatmapSigma = 50.0
	// heatmapMaxAlpha caps overlay opacity at full confidence.
	heatmapMaxAlpha = 0.4

	denoiseStrength       = 10
	denoiseTemplateWindow = 7
	denoiseSearchWindow   = 21
)

// Pipeline implements the image pipeline on OpenCV.
type Pipeline struct{}

// NewPipeline creates the OpenCV-backed pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Preprocess turns raw image bytes into the flattened (1, 224, 224, 3)
// float32 tensor the classifier expects: RGB channel order, area
// interpolation to 224x224, CLAHE on the LAB luminance channel, values
// scaled to [0, 1].
func (p *Pipeline) Preprocess(ctx context.Context, imageData []byte) ([]float32, error) {
	_ = ctx
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(rgb, &resized, image.Pt(inputSide, inputSide), 0, 0, gocv.InterpolationArea)

	equalized, err := equalizeLuminance(resized, claheClipLimit)
	if err != nil {
		return nil, err
	}
	defer equalized.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	equalized.ConvertToWithParams(&scaled, gocv.MatTypeCV32FC3, 1.0/255.0, 0)

	// A continuous HxWxC float mat in row-major order is already the
	// flattened NHWC layout with batch size 1.
	values, err := scaled.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read tensor data: %w", err)
	}
	tensor := make([]float32, len(values))
	copy(tensor, values)
	return tensor, nil
}

// RenderHeatmap resizes the original to display resolution and, for
// non-healthy predictions above the confidence gate, blends in a
// blurred red wash whose opacity scales with confidence. Healthy and
// low-confidence predictions return the resized image untouched.
func (p *Pipeline) RenderHeatmap(imageData []byte, scores []float32) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(displaySide, displaySide), 0, 0, gocv.InterpolationLinear)

	out := resized
	blended := gocv.NewMat()
	defer blended.Close()

	if entity.NeedsOverlay(scores) {
		confidence := float64(scores[entity.Argmax(scores)])

		overlay := gocv.NewMatWithSizeFromScalar(
			gocv.NewScalar(0, 0, 255, 0), displaySide, displaySide, gocv.MatTypeCV8UC3)
		defer overlay.Close()
		gocv.GaussianBlur(overlay, &overlay, image.Pt(0, 0), heatmapSigma, heatmapSigma, gocv.BorderDefault)

		alpha := confidence * heatmapMaxAlpha
		gocv.AddWeighted(resized, 1-alpha, overlay, alpha, 0, &blended)
		out = blended
	}

	return encodePNG(out)
}

// EnhanceForDisplay produces a high-contrast denoised grayscale PNG for
// human viewing.
func (p *Pipeline) EnhanceForDisplay(imageData []byte) ([]byte, error) {
	gray, err := gocv.IMDecode(imageData, gocv.IMReadGrayScale)
	if err != nil || gray.Empty() {
		if !gray.Empty() {
			gray.Close()
		}
		return nil, &entity.DecodeError{Reason: "failed to decode image", Err: err}
	}
	defer gray.Close()

	clahe := gocv.NewCLAHEWithParams(displayClipLimit, image.Pt(claheTileSize, claheTileSize))
	defer clahe.Close()

	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(gray, &enhanced)

	denoised := gocv.NewMat()
	defer denoised.Close()
	gocv.FastNlMeansDenoisingWithParams(enhanced, &denoised,
		denoiseStrength, denoiseTemplateWindow, denoiseSearchWindow)

	return encodePNG(denoised)
}

// equalizeLuminance applies CLAHE to the L channel in LAB space and
// returns the result back in RGB.
func equalizeLuminance(rgb gocv.Mat, clipLimit float64) (gocv.Mat, error) {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(rgb, &lab, gocv.ColorRGBToLab)

	channels := gocv.Split(lab)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) != 3 {
		return gocv.NewMat(), fmt.Errorf("expected 3 lab channels, got %d", len(channels))
	}

	clahe := gocv.NewCLAHEWithParams(clipLimit, image.Pt(claheTileSize, claheTileSize))
	defer clahe.Close()
	clahe.Apply(channels[0], &channels[0])

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(channels, &merged)

	out := gocv.NewMat()
	gocv.CvtColor(merged, &out, gocv.ColorLabToRGB)
	return out, nil
}

// decodeToMat turns image bytes into a BGR gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), &entity.DecodeError{Reason: "failed to decode image", Err: err}
}

func encodePNG(mat gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

var _ port.ImagePipeline = (*Pipeline)(nil)
