package port

import "context"

// Classifier maps a flattened normalized image tensor of shape
// (1, 224, 224, 3) to a confidence vector, one score per diagnostic class.
// Implementations must be safe for concurrent Predict calls.
type Classifier interface {
	Predict(ctx context.Context, tensor []float32) ([]float32, error)
}
