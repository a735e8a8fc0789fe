package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewIsolatedRegistries(t *testing.T) {
	a := New("hospital")
	b := New("hospital")

	a.AppointmentsBooked.Inc()
	a.AppointmentsBooked.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(a.AppointmentsBooked))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.AppointmentsBooked))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New("hospital")
	m.RequestTotal.WithLabelValues("GET", "/api/doctors/", "200").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hospital_http_requests_total{method="GET",path="/api/doctors/",status="200"} 1`)
}
