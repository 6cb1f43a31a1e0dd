package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	app "dental-vision/internal/application"
	"dental-vision/internal/domain/port"
	"dental-vision/internal/infrastructure/storage"
)

const testMaxSize = 10 << 20

type fakePipeline struct {
	renderErr error
}

func (f *fakePipeline) Preprocess(ctx context.Context, imageData []byte) ([]float32, error) {
	return make([]float32, 224*224*3), nil
}

func (f *fakePipeline) RenderHeatmap(imageData []byte, scores []float32) ([]byte, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	return []byte("heatmap-png"), nil
}

func (f *fakePipeline) EnhanceForDisplay(imageData []byte) ([]byte, error) {
	return []byte("enhanced-png"), nil
}

type fakeClassifier struct {
	scores []float32
	err    error
}

func (f *fakeClassifier) Predict(ctx context.Context, tensor []float32) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func newTestServer(t *testing.T, classifier port.Classifier, store port.ArtifactStore) *Server {
	t.Helper()
	svc := app.NewDiagnosisService(&fakePipeline{}, classifier, store, testMaxSize)
	return NewServer(svc, testMaxSize, "*")
}

func pngUpload(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 200, 200))))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, &fakeClassifier{}, storage.NewMemoryStore())

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, "Dental Diagnosis API", payload["message"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeClassifier{}, storage.NewMemoryStore())

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, "healthy", payload["status"])
	require.Equal(t, true, payload["model_loaded"])
}

func TestHealthWithoutModel(t *testing.T) {
	s := newTestServer(t, nil, storage.NewMemoryStore())

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)

	payload := decodeBody(t, resp)
	require.Equal(t, false, payload["model_loaded"])
}

func TestDiagnoseSuccess(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestServer(t, &fakeClassifier{scores: []float32{0.1, 0.85, 0.05}}, store)

	body, contentType := pngUpload(t, "file", "xray.png")
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, true, payload["success"])
	require.Equal(t, "cavity", payload["prediction"])
	require.InDelta(t, 0.85, payload["confidence"].(float64), 1e-6)
	require.NotEmpty(t, payload["image_id"])
	require.NotEmpty(t, payload["message"])

	scores := payload["confidence_scores"].(map[string]any)
	require.Len(t, scores, 3)

	heatmapURL := payload["heatmap_url"].(string)
	require.Equal(t, "/api/image/"+payload["image_id"].(string)+"_heatmap.png", heatmapURL)
	require.True(t, store.Exists(payload["image_id"].(string)+"_heatmap.png"))
}

func TestDiagnoseWithoutFile(t *testing.T) {
	s := newTestServer(t, &fakeClassifier{}, storage.NewMemoryStore())

	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", nil)

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDiagnoseRejectsExtension(t *testing.T) {
	s := newTestServer(t, &fakeClassifier{}, storage.NewMemoryStore())

	body, contentType := pngUpload(t, "file", "xray.tiff")
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, false, payload["success"])
	require.Contains(t, payload["detail"], "invalid file type")
}

func TestDiagnoseClassifierFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestServer(t, &fakeClassifier{err: errors.New("session died")}, store)

	body, contentType := pngUpload(t, "file", "xray.png")
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Contains(t, payload["detail"], "error processing image")
	require.Equal(t, 0, store.Len())
}

func TestImage(t *testing.T) {
	store := storage.NewMemoryStore()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 10, 10))))
	require.NoError(t, store.Save("abc_heatmap.png", img.Bytes()))

	s := newTestServer(t, &fakeClassifier{}, store)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/image/abc_heatmap.png", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, img.Bytes(), data)
}

func TestImageNotFound(t *testing.T) {
	s := newTestServer(t, &fakeClassifier{}, storage.NewMemoryStore())

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/api/image/missing.png", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, "Image not found", payload["detail"])
}

func TestEnhance(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save("abc.png", []byte("original")))

	s := newTestServer(t, &fakeClassifier{}, store)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodPost, "/api/enhance/abc.png", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	require.Equal(t, true, payload["success"])
	require.Equal(t, "/api/image/abc_enhanced.png", payload["enhanced_url"])
	require.True(t, store.Exists("abc_enhanced.png"))
}

func TestEnhanceMissingImage(t *testing.T) {
	s := newTestServer(t, &fakeClassifier{}, storage.NewMemoryStore())

	resp, err := s.app.Test(httptest.NewRequest(http.MethodPost, "/api/enhance/missing.png", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

var _ port.ImagePipeline = (*fakePipeline)(nil)
var _ port.Classifier = (*fakeClassifier)(nil)
