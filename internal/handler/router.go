package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/otoshimono/internal/metrics"
	"github.com/hitoshi/otoshimono/internal/middleware"
)

// HealthChecker はヘルスチェックで使用するDB疎通確認インターフェース。
// *sql.DBがこれを満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// 運用系依存
	HealthChecker     HealthChecker
	MetricsGatherer   prometheus.Gatherer
	MetricsCollector  middleware.HTTPStatusRecorder
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// アイテム
	ItemService ItemServiceInterface

	// 申請
	ClaimService ClaimServiceInterface

	// 画像リレー
	MediaClient MediaClientInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Logging → Metrics → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.MetricsCollector))

	itemHandler := NewItemHandler(deps.ItemService)
	claimHandler := NewClaimHandler(deps.ClaimService)
	uploadHandler := NewUploadHandler(deps.MediaClient)

	// --- 運用系ルート（レート制限の対象外） ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// アイテム管理
		r.Route("/api/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", itemHandler.GetItem)
				r.Patch("/", itemHandler.UpdateItemStatus)
				r.Delete("/", itemHandler.DeleteItem)
			})
		})

		// 申請管理
		r.Route("/api/claims", func(r chi.Router) {
			r.Get("/", claimHandler.ListClaims)
			r.Post("/", claimHandler.CreateClaim)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", claimHandler.UpdateClaimStatus)
				r.Delete("/", claimHandler.DeleteClaim)
			})
		})

		// 画像リレー（アップロード専用レート制限を追加）
		r.Route("/api/upload", func(r chi.Router) {
			r.With(deps.RateLimiter.UploadMiddleware()).Post("/", uploadHandler.Upload)

			// 公開IDはスラッシュを含む（例: lost-and-found/abc123）ため
			// ワイルドカードで受け取る
			r.With(deps.RateLimiter.UploadMiddleware()).Delete("/*", uploadHandler.Destroy)
		})
	})

	return r
}
