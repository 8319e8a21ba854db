package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ollamachat/internal/relay"
)

// TestMetricsMiddleware_EmitsRequestCounters verifies that wrapping a handler
// with MetricsMiddleware results in request metrics being exposed via the
// Prometheus /metrics handler.
func TestMetricsMiddleware_EmitsRequestCounters(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	MetricsMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rr.Code)
	}
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/test", "GET", "418")); got < 1 {
		t.Fatalf("expected counter for /test 418, got %v", got)
	}

	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	if !bytes.Contains(mrr.Body.Bytes(), []byte("ollamachat_http_requests_total")) {
		t.Fatalf("expected ollamachat_http_requests_total in metrics")
	}
}

func TestCountChat_Outcomes(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{relay.ErrModelSwitch("m", errors.New("x")), "switch_failed"},
		{relay.ErrGeneration("m", errors.New("x")), "generation_failed"},
	}
	for _, c := range cases {
		before := testutil.ToFloat64(chatOutcomesTotal.WithLabelValues("http", c.want))
		countChat("http", c.err)
		if after := testutil.ToFloat64(chatOutcomesTotal.WithLabelValues("http", c.want)); after != before+1 {
			t.Fatalf("%s: before=%v after=%v", c.want, before, after)
		}
	}
}
