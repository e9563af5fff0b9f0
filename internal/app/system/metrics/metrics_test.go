package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGenAIRequest(t *testing.T) {
	okBefore := testutil.ToFloat64(GenAIRequestTotal.WithLabelValues("m-test", "success"))
	errBefore := testutil.ToFloat64(GenAIRequestTotal.WithLabelValues("m-test", "error"))

	ObserveGenAIRequest("m-test", time.Now(), nil)
	ObserveGenAIRequest("m-test", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(GenAIRequestTotal.WithLabelValues("m-test", "success")); got != okBefore+1 {
		t.Errorf("success count = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(GenAIRequestTotal.WithLabelValues("m-test", "error")); got != errBefore+1 {
		t.Errorf("error count = %v, want %v", got, errBefore+1)
	}
}

func TestObserveGenAITokens_DerivesTotal(t *testing.T) {
	before := testutil.ToFloat64(GenAITokensTotal.WithLabelValues("m-tokens", "total"))
	ObserveGenAITokens("m-tokens", 10, 5, 0)
	if got := testutil.ToFloat64(GenAITokensTotal.WithLabelValues("m-tokens", "total")); got != before+15 {
		t.Errorf("total tokens = %v, want %v", got, before+15)
	}
}

func TestMustRegister_Once(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
	MustRegister(reg) // second call must not panic

	PublishRuns.WithLabelValues("published").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
}
