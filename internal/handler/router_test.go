package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/otoshimono/internal/media"
	"github.com/hitoshi/otoshimono/internal/metrics"
	"github.com/hitoshi/otoshimono/internal/middleware"
	"github.com/hitoshi/otoshimono/internal/model"
)

// mockHealthChecker はHealthCheckerのモック実装。
type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// newTestRouter はテスト用にルーターを構築するヘルパー。
func newTestRouter(t *testing.T, deps *RouterDeps) http.Handler {
	t.Helper()

	registry := prometheus.NewRegistry()

	if deps.HealthChecker == nil {
		deps.HealthChecker = &mockHealthChecker{}
	}
	if deps.MetricsGatherer == nil {
		deps.MetricsGatherer = registry
	}
	if deps.MetricsCollector == nil {
		deps.MetricsCollector = metrics.NewCollector(registry)
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if deps.CORSAllowedOrigin == "" {
		deps.CORSAllowedOrigin = "http://localhost:3000"
	}
	if deps.RateLimiter == nil {
		deps.RateLimiter = middleware.NewRateLimiter(middleware.NewRateLimiterConfig(120, 10))
		t.Cleanup(deps.RateLimiter.Stop)
	}
	if deps.ItemService == nil {
		deps.ItemService = &mockItemService{}
	}
	if deps.ClaimService == nil {
		deps.ClaimService = &mockClaimService{}
	}
	if deps.MediaClient == nil {
		deps.MediaClient = &mockMediaClient{}
	}

	return NewRouter(deps)
}

func TestRouter_HealthEndpoint_DBReachable_Returns200(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_HealthEndpoint_DBUnreachable_Returns503(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{
		HealthChecker: &mockHealthChecker{
			pingFn: func(ctx context.Context) error {
				return errors.New("connection refused")
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_MetricsEndpoint_ReturnsExposition(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	collector.RecordItemCreated()

	router := newTestRouter(t, &RouterDeps{
		MetricsGatherer:  registry,
		MetricsCollector: collector,
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "otoshimono_items_created_total") {
		t.Error("expected item creation counter in metrics exposition")
	}
}

func TestRouter_ItemRoutes_Wired(t *testing.T) {
	var gotID string
	router := newTestRouter(t, &RouterDeps{
		ItemService: &mockItemService{
			getItemFn: func(ctx context.Context, id string) (*model.Item, error) {
				gotID = id
				return testItem(), nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/items/item-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotID != "item-1" {
		t.Errorf("service received id %q, want %q", gotID, "item-1")
	}
}

func TestRouter_UploadDestroy_WildcardPreservesSlashes(t *testing.T) {
	var gotPublicID string
	router := newTestRouter(t, &RouterDeps{
		MediaClient: &mockMediaClient{
			destroyFn: func(ctx context.Context, publicID string) (bool, error) {
				gotPublicID = publicID
				return true, nil
			},
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/upload/lost-and-found/abc123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotPublicID != "lost-and-found/abc123" {
		t.Errorf("publicID = %q, want %q", gotPublicID, "lost-and-found/abc123")
	}
}

func TestRouter_UploadRateLimit_Returns429(t *testing.T) {
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     1000,
		GeneralBurst:    1000,
		UploadRate:      0.001,
		UploadBurst:     1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	router := newTestRouter(t, &RouterDeps{
		RateLimiter: rl,
		MediaClient: &mockMediaClient{
			uploadFn: func(ctx context.Context, file string) (*media.UploadResult, error) {
				return &media.UploadResult{URL: "https://example.com/a.png", PublicID: "a"}, nil
			},
		},
	})

	body := `{"file":"data:image/png;base64,iVBORw0KGgo="}`

	req1 := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(body))
	req1.RemoteAddr = "203.0.113.10:50000"
	w1 := httptest.NewRecorder()
	router.ServeHTTP(w1, req1)
	if w1.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", w1.Code, http.StatusOK)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(body))
	req2.RemoteAddr = "203.0.113.10:50001"
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	if w2.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", w2.Code, http.StatusTooManyRequests)
	}
	if w2.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429 response")
	}
}

func TestRouter_CORSHeaders_Applied(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{CORSAllowedOrigin: "http://campus.example.edu"})

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Origin", "http://campus.example.edu")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://campus.example.edu" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://campus.example.edu")
	}
}

func TestRouter_PanicInHandler_Returns500(t *testing.T) {
	router := newTestRouter(t, &RouterDeps{
		ItemService: &mockItemService{
			listItemsFn: func(ctx context.Context, itemType string) ([]*model.Item, error) {
				panic("boom")
			},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
