package port

// ArtifactStore keeps per-request artifacts (originals, heatmaps,
// enhanced renditions) addressed by bare file name. Artifacts are written
// once and never rewritten.
type ArtifactStore interface {
	Save(name string, data []byte) error
	Open(name string) ([]byte, error)
	Delete(name string) error
	Exists(name string) bool
}
