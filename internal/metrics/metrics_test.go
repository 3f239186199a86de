package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	domainErrors "github.com/polkiloo/restaurant/internal/domain/errors"
	"github.com/polkiloo/restaurant/internal/domain/model"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/login", http.StatusUnauthorized, 15*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/login", http.StatusUnauthorized, 5*time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "/login", "401")); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 1 {
		t.Fatalf("expected one duration series, got %d", got)
	}
}

func TestRequestErrorAndNotification(t *testing.T) {
	m := New()
	m.RequestError("/register", domainErrors.KindConflict)
	m.Notification(model.EventNewOrder, OutcomeFailed)
	m.Notification(model.EventNewOrder, OutcomeFailed)

	if got := testutil.ToFloat64(m.requestErrors.WithLabelValues("/register", "conflict")); got != 1 {
		t.Fatalf("expected 1 request error, got %v", got)
	}
	if got := testutil.ToFloat64(m.notifications.WithLabelValues("new_order", "failed")); got != 2 {
		t.Fatalf("expected 2 failed notifications, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RequestError("/", domainErrors.KindUnknown)
	m.Notification(model.EventLogin, OutcomeSent)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.Notification(model.EventLogin, OutcomeSent)

	resp := httptest.NewRecorder()
	m.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `restaurant_notifications_total{event="login",outcome="sent"} 1`) {
		t.Fatalf("expected notification counter in exposition, got:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("expected go collector in exposition")
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	first, second := New(), New()
	first.RequestError("/login", domainErrors.KindUnavailable)
	if got := testutil.ToFloat64(second.requestErrors.WithLabelValues("/login", "unavailable")); got != 0 {
		t.Fatalf("expected separate registries, got %v", got)
	}
	if first.Registry() == second.Registry() {
		t.Fatal("expected distinct registries")
	}
}
