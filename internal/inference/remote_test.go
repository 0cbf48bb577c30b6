package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRemotePredictor_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Obesity_Flag":1,"Hypertension_Flag":0,"Stroke_Flag":1}`))
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.URL, 2*time.Second, zap.NewNop())
	risks, err := p.Predict(context.Background(), sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, 1, risks.Obesity.PredictedClass)
	assert.Equal(t, 0, risks.Hypertension.PredictedClass)
	assert.Equal(t, 1, risks.Stroke.PredictedClass)
	assert.Equal(t, 0.0, risks.Stroke.Probability)
	assert.False(t, risks.Stroke.ProbabilityAvailable)

	assert.Equal(t, "Female", got["Gender"])
	assert.Equal(t, 25.0, got["BMI"])
	assert.Equal(t, "Yes", got["Smoking_Habit"])
	assert.Contains(t, got, "FRUITS_VEGGIES")
}

func TestRemotePredictor_Non2xxCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.URL, 2*time.Second, zap.NewNop())
	_, err := p.Predict(context.Background(), sampleRecord())

	var statusErr *RemoteStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "model not loaded", statusErr.Body)
}

func TestRemotePredictor_BadFlags(t *testing.T) {
	bodies := []string{
		`{"Obesity_Flag":1,"Hypertension_Flag":0}`,
		`{"Obesity_Flag":1,"Hypertension_Flag":0,"Stroke_Flag":3}`,
		`not json`,
	}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		p := NewRemotePredictor(srv.URL, 2*time.Second, zap.NewNop())
		_, err := p.Predict(context.Background(), sampleRecord())
		assert.Error(t, err, body)
		srv.Close()
	}
}

func TestRemotePredictor_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := NewRemotePredictor(srv.URL, 100*time.Millisecond, zap.NewNop())
	_, err := p.Predict(context.Background(), sampleRecord())
	assert.Error(t, err)
}
