package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/nobabdine/internal/core/domain"
	"github.com/rl1809/nobabdine/internal/core/service"
	"github.com/rl1809/nobabdine/internal/port"
)

const (
	defaultPage  = 1
	defaultLimit = 9

	idempotencyHeader = "Idempotency-Key"
	livenessMessage   = "NobabDine server is running"
)

type HTTPHandler struct {
	catalog *service.CatalogService
	carts   *service.CartService
	orders  *service.OrderService
	auth    *service.AuthService
	cookies CookiePolicy
	health  map[string]port.HealthChecker
	logger  *slog.Logger
}

type Services struct {
	Catalog *service.CatalogService
	Carts   *service.CartService
	Orders  *service.OrderService
	Auth    *service.AuthService
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type TokenRequest struct {
	Email string `json:"email"`
}

func NewHTTPHandler(svc Services, cookies CookiePolicy, health map[string]port.HealthChecker, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{
		catalog: svc.Catalog,
		carts:   svc.Carts,
		orders:  svc.Orders,
		auth:    svc.Auth,
		cookies: cookies,
		health:  health,
		logger:  logger,
	}
}

func (h *HTTPHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(livenessMessage))
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, checker := range h.health {
		if err := checker.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "dependency", name, "error", err)
			status[name] = "unavailable"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	writeJSON(w, code, status)
}

func (h *HTTPHandler) TopCuisines(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Top(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) ListCuisines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := positiveInt(q.Get("page"), defaultPage)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	limit, err := positiveInt(q.Get("limit"), defaultLimit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.catalog.List(r.Context(), domain.CatalogQuery{
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) GetCuisine(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *HTTPHandler) CreateCuisine(w http.ResponseWriter, r *http.Request) {
	var item domain.Cuisine
	if !decodeBody(w, r, &item) {
		return
	}

	result, err := h.catalog.Create(r.Context(), item)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) UpdateCuisine(w http.ResponseWriter, r *http.Request) {
	var item domain.Cuisine
	if !decodeBody(w, r, &item) {
		return
	}

	result, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) DeleteCuisine(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) MyCuisines(w http.ResponseWriter, r *http.Request) {
	email, ok := h.authorizedEmail(w, r)
	if !ok {
		return
	}

	items, err := h.catalog.ListByOwner(r.Context(), email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var line domain.CartLine
	if !decodeBody(w, r, &line) {
		return
	}

	result, err := h.carts.Add(r.Context(), line)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	email, ok := h.authorizedEmail(w, r)
	if !ok {
		return
	}

	lines, err := h.carts.List(r.Context(), email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *HTTPHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	result, err := h.carts.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var order domain.Order
	if !decodeBody(w, r, &order) {
		return
	}

	result, err := h.orders.PlaceOrder(r.Context(), order, r.Header.Get(idempotencyHeader))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	email, ok := h.authorizedEmail(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, expires, err := h.auth.Issue(req.Email)
	if errors.Is(err, service.ErrEmptyIdentity) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookies.issue(token, expires))
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookies.clear())
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// authorizedEmail returns the ?email= value when it belongs to the caller,
// answering 403 otherwise.
func (h *HTTPHandler) authorizedEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := r.URL.Query().Get("email")
	if err := service.AuthorizeEmail(ClaimsFromContext(r.Context()), email); err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return "", false
	}
	return email, true
}

func (h *HTTPHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidOrder), errors.Is(err, domain.ErrInvalidPagination):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateRequest):
		writeError(w, http.StatusConflict, "duplicate request")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func positiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, domain.ErrInvalidPagination
	}
	return n, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
