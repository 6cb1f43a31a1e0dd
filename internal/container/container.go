package container

import (
	app "dental-vision/internal/application"
	"dental-vision/internal/domain/port"
)

// Container holds the application services.
type Container struct {
	Diagnosis *app.DiagnosisService
}

// New wires the application services over the supplied infrastructure.
func New(pipeline port.ImagePipeline, classifier port.Classifier, store port.ArtifactStore, maxFileSize int64) *Container {
	return &Container{
		Diagnosis: app.NewDiagnosisService(pipeline, classifier, store, maxFileSize),
	}
}
