package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.ObserveAssessment("ok", 85)
	c.ObserveAssessment("unavailable", 0)
	c.ObservePrediction("local", false, 10*time.Millisecond)
	c.ObservePrediction("remote", true, 20*time.Millisecond)
	c.ObserveFallback("local_failed")
	c.ObserveProvisioning(true)
	c.ObservePersistFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.assessmentsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.assessmentsTotal.WithLabelValues("unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.predictionsTotal.WithLabelValues("local", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.predictionsTotal.WithLabelValues("remote", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fallbacksTotal.WithLabelValues("local_failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.provisioningTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.persistFailures))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveFallback("provisioning_failed")

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `wellness_local_fallbacks_total{reason="provisioning_failed"} 1`))
}
