package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"dental-vision/internal/domain/entity"
	"dental-vision/internal/domain/port"
)

const (
	heatmapSuffix  = "_heatmap.png"
	enhancedSuffix = "_enhanced.png"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// DiagnosisService runs the full pipeline for one uploaded X-ray:
// validation, artifact storage, preprocessing, inference, interpretation
// and heatmap rendering.
type DiagnosisService struct {
	pipeline    port.ImagePipeline
	classifier  port.Classifier
	store       port.ArtifactStore
	maxFileSize int64
}

// NewDiagnosisService wires the service. The classifier may be nil when
// no model could be loaded at startup; requests then fail with a
// classifier error while the rest of the API stays up.
func NewDiagnosisService(pipeline port.ImagePipeline, classifier port.Classifier, store port.ArtifactStore, maxFileSize int64) *DiagnosisService {
	return &DiagnosisService{
		pipeline:    pipeline,
		classifier:  classifier,
		store:       store,
		maxFileSize: maxFileSize,
	}
}

// ModelLoaded reports whether a classifier is available.
func (s *DiagnosisService) ModelLoaded() bool {
	return s.classifier != nil
}

// Diagnose processes one uploaded file and returns the diagnosis report.
// Validation failures short-circuit before anything is stored. A failure
// after the original has been persisted deletes every artifact written
// for this request.
func (s *DiagnosisService) Diagnose(ctx context.Context, filename string, content []byte) (*entity.Report, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, &entity.ValidationError{
			Reason: fmt.Sprintf("invalid file type %q, allowed types: .jpg, .jpeg, .png, .bmp", ext),
		}
	}

	if err := ValidateImage(content, s.maxFileSize); err != nil {
		return nil, err
	}

	if s.pipeline == nil {
		return nil, &entity.ClassifierError{Reason: "image pipeline is not configured"}
	}
	if s.classifier == nil {
		return nil, &entity.ClassifierError{Reason: "model is not loaded"}
	}

	imageID := uuid.NewString()
	originalName := imageID + ext
	if err := s.store.Save(originalName, content); err != nil {
		return nil, &entity.StorageError{Name: originalName, Err: err}
	}

	report, err := s.process(ctx, imageID, content)
	if err != nil {
		// Partial artifacts must not outlive a failed request.
		_ = s.store.Delete(originalName)
		_ = s.store.Delete(imageID + heatmapSuffix)
		return nil, err
	}
	return report, nil
}

func (s *DiagnosisService) process(ctx context.Context, imageID string, content []byte) (*entity.Report, error) {
	tensor, err := s.pipeline.Preprocess(ctx, content)
	if err != nil {
		return nil, err
	}

	scores, err := s.classifier.Predict(ctx, tensor)
	if err != nil {
		return nil, &entity.ClassifierError{Reason: "inference failed", Err: err}
	}

	diagnosis := entity.Interpret(scores)

	heatmap, err := s.pipeline.RenderHeatmap(content, scores)
	if err != nil {
		return nil, err
	}

	heatmapName := imageID + heatmapSuffix
	if err := s.store.Save(heatmapName, heatmap); err != nil {
		return nil, &entity.StorageError{Name: heatmapName, Err: err}
	}

	return &entity.Report{
		Success:          true,
		Prediction:       diagnosis.Prediction,
		Confidence:       diagnosis.Confidence,
		ConfidenceScores: diagnosis.Scores,
		ImageID:          imageID,
		Message:          diagnosis.Message,
		HeatmapURL:       "/api/image/" + heatmapName,
	}, nil
}

// Enhance produces a high-contrast grayscale rendition of a previously
// stored original and persists it alongside. Returns the artifact name.
func (s *DiagnosisService) Enhance(ctx context.Context, imageName string) (string, error) {
	_ = ctx
	if s.pipeline == nil {
		return "", &entity.ClassifierError{Reason: "image pipeline is not configured"}
	}

	content, err := s.store.Open(imageName)
	if err != nil {
		return "", err
	}

	enhanced, err := s.pipeline.EnhanceForDisplay(content)
	if err != nil {
		return "", err
	}

	name := strings.TrimSuffix(imageName, filepath.Ext(imageName)) + enhancedSuffix
	if err := s.store.Save(name, enhanced); err != nil {
		return "", &entity.StorageError{Name: name, Err: err}
	}
	return name, nil
}

// Artifact returns the raw bytes of a stored artifact.
func (s *DiagnosisService) Artifact(name string) ([]byte, error) {
	return s.store.Open(name)
}
