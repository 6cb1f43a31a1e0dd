package entity

// Report is the full diagnosis payload returned for one upload, including
// references to the stored artifacts.
type Report struct {
	Success          bool                   `json:"success"`
	Prediction       ClassLabel             `json:"prediction"`
	Confidence       float32                `json:"confidence"`
	ConfidenceScores map[ClassLabel]float32 `json:"confidence_scores"`
	ImageID          string                 `json:"image_id"`
	Message          string                 `json:"message"`
	HeatmapURL       string                 `json:"heatmap_url"`
}
