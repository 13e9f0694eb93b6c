package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"neurotrack-ml/internal/core/services"
	"neurotrack-ml/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupScoringRouter(key string) (*testutil.MockClassifier, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	model := new(testutil.MockClassifier)
	model.On("FeatureNames").Return([]string{"feature_0", "feature_1"}).Maybe()

	h := New(services.NewScoringService(model), "alzheimer-speech-risk-model", "neurotrack-forest/v1")
	return model, NewRouter(h, RouterOptions{Key: key})
}

func doJSON(r *gin.Engine, method, path, key string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScore(t *testing.T) {
	model, r := setupScoringRouter("secret")
	model.On("PredictProba", [][]float64{{0.9, 0.4}, {0.1, 0.2}}).
		Return([][]float64{{0.2, 0.8}, {0.7, 0.3}}, nil)

	w := doJSON(r, "POST", "/score", "secret", map[string]interface{}{
		"data": []map[string]float64{
			{"feature_0": 0.9, "feature_1": 0.4},
			{"feature_0": 0.1, "feature_1": 0.2, "extra": 5},
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float64{1, 0}, resp["prediction"])
	assert.Equal(t, []float64{0.8, 0.3}, resp["probability"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestScore_MissingFeature(t *testing.T) {
	model, r := setupScoringRouter("")

	w := doJSON(r, "POST", "/score", "", map[string]interface{}{
		"data": []map[string]float64{{"feature_0": 0.9}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	model.AssertNotCalled(t, "PredictProba", mock.Anything)
}

func TestScore_EmptyData(t *testing.T) {
	_, r := setupScoringRouter("")

	w := doJSON(r, "POST", "/score", "", map[string]interface{}{"data": []map[string]float64{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/score", "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScore_Unauthorized(t *testing.T) {
	_, r := setupScoringRouter("secret")

	w := doJSON(r, "POST", "/score", "", map[string]interface{}{"data": []map[string]float64{{}}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "POST", "/score", "wrong", map[string]interface{}{"data": []map[string]float64{{}}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScore_PredictFailure(t *testing.T) {
	model, r := setupScoringRouter("")
	model.On("PredictProba", mock.Anything).Return(nil, assert.AnError)

	w := doJSON(r, "POST", "/score", "", map[string]interface{}{
		"data": []map[string]float64{{"feature_0": 1, "feature_1": 2}},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestModelInfo(t *testing.T) {
	_, r := setupScoringRouter("secret")

	w := doJSON(r, "GET", "/model", "secret", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alzheimer-speech-risk-model", resp["name"])
	assert.Equal(t, []interface{}{"feature_0", "feature_1"}, resp["features"])
}

func TestHealthAndMetrics_NoAuth(t *testing.T) {
	_, r := setupScoringRouter("secret")

	w := doJSON(r, "GET", "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "neurotrack_http_requests_total")
}
