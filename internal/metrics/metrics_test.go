package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTransitionCounter(t *testing.T) {
	r := New()
	r.Transition("login", "success")
	r.Transition("login", "success")
	r.Transition("login", "invalid_credentials")

	require.Equal(t, 2.0, testutil.ToFloat64(r.transitions.WithLabelValues("login", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("login", "invalid_credentials")))
}

func TestHistograms(t *testing.T) {
	r := New()
	r.FaceDistance(0.42)
	r.HTTPRequest("POST", "/api/v1/auth/login", 200, 15*time.Millisecond)

	require.Equal(t, 1, testutil.CollectAndCount(r.faceDistance))
	require.Equal(t, 1, testutil.CollectAndCount(r.httpDuration))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.Transition("login", "success")
	r.FaceDistance(0.1)
	r.HTTPRequest("GET", "/", 200, time.Millisecond)
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.Transition("verify_otp", "success")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `trigate_mfa_transitions_total{outcome="success",transition="verify_otp"} 1`))
}
