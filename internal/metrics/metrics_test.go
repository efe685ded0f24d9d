package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/":                           "/",
		"/products":                   "/products",
		"/products/12":                "/products",
		"/documents/17-a.pdf/preview": "/documents",
		"//inventory//3":              "/inventory",
	}
	for in, want := range cases {
		assert.Equal(t, want, canonicalPath(in), in)
	}
}

func TestInstrumentHandler(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/products", "418"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/products/42", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/products", "418"))

	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(equipmentTransitions.WithLabelValues("in_use"))
	RecordTransition("in_use")
	assert.Equal(t, before+1, testutil.ToFloat64(equipmentTransitions.WithLabelValues("in_use")))

	before = testutil.ToFloat64(documentOps.WithLabelValues("delete", "failure"))
	RecordDocument("delete", false)
	assert.Equal(t, before+1, testutil.ToFloat64(documentOps.WithLabelValues("delete", "failure")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordLogin("success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "armazem_auth_logins_total"))
}
