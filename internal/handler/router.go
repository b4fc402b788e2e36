package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/bandman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	HTTPMetrics       middleware.HTTPMetricsRecorder

	// サービス
	ProfileService ProfileServiceInterface
	BandService    BandServiceInterface
	VenueService   VenueServiceInterface
	EventService   EventServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → Auth → RateLimit(General)
//
// /health はミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	profileHandler := NewProfileHandler(deps.ProfileService)
	bandHandler := NewBandHandler(deps.BandService)
	venueHandler := NewVenueHandler(deps.VenueService)
	eventHandler := NewEventHandler(deps.EventService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// プロフィール管理
		r.Route("/auth/me", func(r chi.Router) {
			r.Get("/", profileHandler.Me)
			r.Put("/", profileHandler.UpdateMe)
		})
		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", profileHandler.CreateProfile)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Get("/bands", profileHandler.ListBands)
			})
		})

		// バンド管理
		r.Route("/bands", func(r chi.Router) {
			// POST /bands - バンド作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.BandCreationMiddleware()).Post("/", bandHandler.CreateBand)

			r.Post("/join/{joinCode}", bandHandler.JoinBand)

			r.Route("/{bandID}", func(r chi.Router) {
				r.Get("/", bandHandler.GetBand)
				r.Get("/members", bandHandler.ListMembers)

				// バンド従属リソース
				r.Post("/venues", venueHandler.CreateVenue)
				r.Get("/venues", venueHandler.ListVenues)
				r.Post("/events", eventHandler.CreateEvent)
				r.Get("/events", eventHandler.ListEvents)
			})
		})
		r.Get("/my/bands", bandHandler.ListMyBands)

		// 会場（個別ID）
		r.Route("/venues/{venueID}", func(r chi.Router) {
			r.Get("/", venueHandler.GetVenue)
			r.Patch("/", venueHandler.UpdateVenue)
			r.Delete("/", venueHandler.DeleteVenue)
		})

		// イベント（個別ID）
		r.Route("/events/{eventID}", func(r chi.Router) {
			r.Get("/", eventHandler.GetEvent)
			r.Put("/", eventHandler.UpdateEvent)
			r.Delete("/", eventHandler.DeleteEvent)
		})
	})

	return r
}
