/*
handlers.go - HTTP API handlers for the point-of-sale engine

PURPOSE:
  Exposes the register, the reports, the menu and account management via
  REST. Handles HTTP request/response and JSON, and delegates to the domain.

ENDPOINTS:
  Auth:
    POST   /api/auth/login          Exchange username/password for a token
    POST   /api/auth/register       Create an account (admin)
    GET    /api/auth/profile        Current account

  Menu:
    GET    /api/menu                Items on sale
    GET    /api/menu/categories     Item count per category
    POST   /api/menu                Create item (admin)

  Orders:
    POST   /api/orders              Record a cash sale
    GET    /api/orders?limit=N      Newest sales first
    GET    /api/orders/today        Today's summary
    GET    /api/orders/daily?date=  Summary for a UTC date (YYYY-MM-DD)

  Dashboard:
    GET    /api/dashboard/stats     Today and all-time totals

REQUEST FLOW:
  1. Parse and validate the body
  2. Call the domain (register, reporter, catalog, auth)
  3. Serialize the response
  4. Map domain errors in writeDomainError

ERROR HANDLING:
  - 400: Validation errors, insufficient cash
  - 401: Missing/invalid token, bad credentials
  - 403: Role not allowed
  - 404: Not found
  - 409: Duplicate (username taken)
  - 429: Login rate limit
  - 500: Storage and internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/warp/pos-engine/auth"
	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/pos"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Auth     *auth.Service
	Menu     *catalog.Service
	Register *pos.Register
	Reports  *pos.Reporter
	Log      logrus.FieldLogger
	Metrics  *Metrics

	LoginLimiter   *LoginLimiter
	AllowedOrigins []string
	RecentLimitMax int
	Ping           func(context.Context) error

	validate *validator.Validate
}

// NewHandler wires the services with default limits. Callers may override
// the exported fields before building the router.
func NewHandler(authSvc *auth.Service, menu *catalog.Service, register *pos.Register, reports *pos.Reporter, log logrus.FieldLogger) *Handler {
	return &Handler{
		Auth:           authSvc,
		Menu:           menu,
		Register:       register,
		Reports:        reports,
		Log:            log,
		Metrics:        NewMetrics(),
		LoginLimiter:   NewLoginLimiter(1, 5),
		AllowedOrigins: []string{"*"},
		RecentLimitMax: pos.MaxRecentLimit,
		validate:       newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names in errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, id, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Log.WithFields(logrus.Fields{"username": id.Username, "role": id.Role}).Info("login")
	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserDTO(id),
	})
}

// RegisterUser handles POST /api/auth/register
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())

	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.Auth.Register(r.Context(), actor, auth.NewUser{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
		Role:     pos.Role(req.Role),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Log.WithFields(logrus.Fields{"by": actor.Username, "username": u.Username, "role": u.Role}).Info("user created")
	writeJSON(w, http.StatusCreated, userDTOFromAccount(u))
}

// Profile handles GET /api/auth/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	u, err := h.Auth.Profile(r.Context(), id.ID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userDTOFromAccount(u))
}

// =============================================================================
// MENU ENDPOINTS
// =============================================================================

// ListMenu handles GET /api/menu
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.Menu(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListCategories handles GET /api/menu/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Menu.Categories(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CreateMenuItem handles POST /api/menu
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := IdentityFrom(r.Context())

	var req CreateMenuItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item, err := h.Menu.Create(r.Context(), actor, catalog.NewItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Available:   available,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// =============================================================================
// ORDER ENDPOINTS
// =============================================================================

// CreateOrder handles POST /api/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	operator, _ := IdentityFrom(r.Context())

	var req CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	tx, err := h.Register.Submit(r.Context(), req.toCandidate(), operator)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Metrics.RecordSale(tx.Total)
	h.Log.WithFields(logrus.Fields{
		"order_id": tx.ID,
		"cashier":  operator.Username,
		"total":    tx.Total.String(),
		"items":    len(tx.Items),
	}).Info("sale recorded")
	writeJSON(w, http.StatusCreated, toOrderDTO(tx))
}

// ListOrders handles GET /api/orders?limit=N
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := pos.DefaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit", err)
			return
		}
		limit = n
	}
	if h.RecentLimitMax > 0 && limit > h.RecentLimitMax {
		limit = h.RecentLimitMax
	}

	txs, err := h.Register.Log.ListRecent(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	orders := make([]OrderDTO, len(txs))
	for i, tx := range txs {
		orders[i] = toOrderDTO(tx)
	}
	writeJSON(w, http.StatusOK, orders)
}

// TodaySummary handles GET /api/orders/today
func (h *Handler) TodaySummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Reports.Today(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailySalesDTO(s))
}

// DailySummary handles GET /api/orders/daily?date=YYYY-MM-DD
func (h *Handler) DailySummary(w http.ResponseWriter, r *http.Request) {
	ref := h.Reports.Now()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
			return
		}
		ref = d
	}

	s, err := h.Reports.DailySummary(r.Context(), ref)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailySalesDTO(s))
}

// =============================================================================
// DASHBOARD / HEALTH
// =============================================================================

// DashboardStats handles GET /api/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	d, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(d))
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body into dst and validates it. On failure it writes
// a 400 and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Namespace()] = fe.Tag()
			}
			writeError(w, http.StatusBadRequest, "validation failed", nil, fields)
			return false
		}
		writeError(w, http.StatusBadRequest, "validation failed", err)
		return false
	}
	return true
}

// writeDomainError maps domain errors to HTTP status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		payErr *pos.InsufficientPaymentError
		valErr *pos.ValidationError
	)
	switch {
	case errors.As(err, &payErr):
		writeError(w, http.StatusBadRequest, "cash received is less than the total", err, map[string]pos.Money{
			"total_amount":  payErr.Total,
			"cash_received": payErr.CashReceived,
			"shortfall":     payErr.Shortfall,
		})
	case errors.As(err, &valErr):
		writeError(w, http.StatusBadRequest, "validation failed", err, map[string]string{valErr.Field: valErr.Reason})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid username or password", nil)
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid or expired token", nil)
	case errors.Is(err, pos.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "not allowed", err)
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already taken", nil)
	case errors.Is(err, pos.ErrDuplicate):
		writeError(w, http.StatusConflict, "duplicate record", err)
	case pos.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found", err)
	default:
		h.Log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an ErrorResponse. details, when given, replaces the
// error text as the Details payload.
func writeError(w http.ResponseWriter, status int, message string, err error, details ...any) {
	resp := ErrorResponse{Error: message}
	if len(details) > 0 {
		resp.Details = details[0]
	} else if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
