package classifier

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"dental-vision/internal/domain/entity"
	"dental-vision/internal/domain/port"
)

const inputSide = 224

// tensorLen is the flattened size of one (1, 224, 224, 3) input.
const tensorLen = inputSide * inputSide * 3

// Model wraps a single ONNX Runtime session over the dental classifier.
// The session reuses one pre-allocated input and output tensor, so
// Predict holds a lock for the duration of an inference.
type Model struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// NewModel loads the ONNX model at the given path and prepares the
// inference session. The caller owns the returned Model and must Close it.
func NewModel(modelPath string) (*Model, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnx environment: %w", err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, inputSide, inputSide, 3))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, entity.NumClasses))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Model{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Predict runs one inference over a flattened normalized image tensor and
// returns a copy of the confidence vector.
func (m *Model) Predict(ctx context.Context, tensor []float32) ([]float32, error) {
	_ = ctx
	if len(tensor) != tensorLen {
		return nil, fmt.Errorf("tensor has %d values, want %d", len(tensor), tensorLen)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputTensor.GetData(), tensor)
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	output := m.outputTensor.GetData()
	if len(output) != entity.NumClasses {
		return nil, fmt.Errorf("model returned %d scores, want %d", len(output), entity.NumClasses)
	}

	scores := make([]float32, entity.NumClasses)
	copy(scores, output)
	return scores, nil
}

// Close releases the session and its tensors.
func (m *Model) Close() {
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
	}
	if m.session != nil {
		m.session.Destroy()
	}
	ort.DestroyEnvironment()
}

var _ port.Classifier = (*Model)(nil)
