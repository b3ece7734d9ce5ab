package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *HTTPHandler, verifier TokenVerifier, clientOrigin string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{clientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", idempotencyHeader},
		AllowCredentials: true,
	}))

	guarded := r.With(RequireAuth(verifier))

	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)

	r.Get("/topcuisin", h.TopCuisines)
	r.Get("/allcuisin", h.ListCuisines)
	r.Post("/allcuisin", h.CreateCuisine)
	r.Get("/allcuisin/{id}", h.GetCuisine)
	r.Put("/allcuisin/{id}", h.UpdateCuisine)
	r.Delete("/allcuisin/{id}", h.DeleteCuisine)
	guarded.Get("/mycuisin", h.MyCuisines)

	r.Post("/carts", h.AddToCart)
	guarded.Get("/carts", h.ListCart)
	r.Delete("/carts/{id}", h.RemoveFromCart)

	r.Post("/orders", h.PlaceOrder)
	guarded.Get("/orders", h.ListOrders)

	r.Post("/jwt", h.IssueToken)
	r.Post("/logout", h.Logout)

	return r
}

// RequestLogger logs one line per request after the handler returns.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"uri", r.RequestURI,
				"status", ww.Status(),
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
