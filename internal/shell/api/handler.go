// Package api provides HTTP handlers for the QuickBite menu API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quickbite/menu/internal/core/domain"
	"github.com/quickbite/menu/internal/core/validation"
	"github.com/quickbite/menu/internal/shell/api/openapi"
	"github.com/quickbite/menu/internal/shell/catalog"
	"github.com/quickbite/menu/internal/shell/store"
)

// maxBodyBytes caps request bodies on write endpoints.
const maxBodyBytes = 1 << 20

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
type Handler struct {
	catalog *catalog.Service
	openapi *openapi.Generator
	logger  *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *catalog.Service, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	return &Handler{
		catalog: svc,
		openapi: NewOpenAPIGenerator(),
		logger:  l,
	}
}

// NewOpenAPIGenerator returns a generator describing the food item routes.
func NewOpenAPIGenerator(opts ...openapi.Option) *openapi.Generator {
	g := openapi.NewGenerator(opts...)
	g.RegisterResource(openapi.ResourceInfo{
		Name:           "fooditems",
		SchemaName:     "FoodItem",
		Model:          FoodItemResponse{},
		CreateModel:    CreateFoodItemRequest{},
		UpdateModel:    UpdateFoodItemRequest{},
		SupportsFind:   true,
		SupportsCreate: true,
		SupportsUpdate: true,
		SupportsDelete: true,
	})
	return g
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(h.recoverer)
	r.Use(h.requestIDHeader)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	// API description
	r.Get("/openapi.json", h.openapi.Handler())

	r.Route("/api/fooditems", func(r chi.Router) {
		r.Get("/", h.handleListFoodItems)
		r.Post("/", h.handleCreateFoodItem)
		r.Get("/{id}", h.handleGetFoodItem)
		r.Put("/{id}", h.handleUpdateFoodItem)
		r.Delete("/{id}", h.handleDeleteFoodItem)
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request once the response is written.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		h.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// recoverer turns a panic into the generic 500 response. A response that
// has already started is left as is.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error("panic serving request", "panic", rec, "path", r.URL.Path)
				if ww, ok := w.(middleware.WrapResponseWriter); ok && ww.Status() != 0 {
					return
				}
				h.writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if err := h.catalog.Ready(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", "error", err)
		checks["database"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Food Item Handlers
// =============================================================================

func (h *Handler) handleListFoodItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "failed to list food items")
		return
	}

	resp := make([]FoodItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, foodItemToResponse(&items[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetFoodItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "failed to get food item")
		return
	}

	h.writeJSON(w, http.StatusOK, foodItemToResponse(item))
}

func (h *Handler) handleCreateFoodItem(w http.ResponseWriter, r *http.Request) {
	var req CreateFoodItemRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	item, err := h.catalog.Create(r.Context(), req.toDomain())
	if err != nil {
		h.handleServiceError(w, err, "failed to create food item")
		return
	}

	w.Header().Set("Location", "/api/fooditems/"+item.ID)
	h.writeJSON(w, http.StatusCreated, foodItemToResponse(item))
}

func (h *Handler) handleUpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateFoodItemRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	item, err := h.catalog.Update(r.Context(), id, req.toDomain())
	if err != nil {
		h.handleServiceError(w, err, "failed to update food item")
		return
	}

	h.writeJSON(w, http.StatusOK, foodItemToResponse(item))
}

func (h *Handler) handleDeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "failed to delete food item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// decodeJSON decodes the request body into v. On failure it writes the 400
// response and returns false. Unrecognized enum names are reported as a
// validation failure on that field.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var enumErr *domain.EnumError
	if errors.As(err, &enumErr) {
		message := validation.MsgInvalidCategory
		if enumErr.Enum == validation.FieldDietaryTag {
			message = validation.MsgInvalidDietaryTag
		}
		h.writeValidationError(w, []ValidationDetail{{
			Field:          enumErr.Enum,
			Message:        message,
			AttemptedValue: enumErr.Value,
		}})
		return false
	}

	h.writeError(w, http.StatusBadRequest, "invalid JSON", "invalid_request")
	return false
}

// handleServiceError maps a catalog error to its HTTP response.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, logMsg string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		details := make([]ValidationDetail, 0, len(vErr.Violations))
		for _, v := range vErr.Violations {
			details = append(details, ValidationDetail{
				Field:          v.Field,
				Message:        v.Message,
				AttemptedValue: v.AttemptedValue,
			})
		}
		h.writeValidationError(w, details)
	case store.IsNotFound(err):
		w.WriteHeader(http.StatusNotFound)
	default:
		h.logger.Error(logMsg, "error", err)
		h.writeInternalError(w)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *Handler) writeValidationError(w http.ResponseWriter, details []ValidationDetail) {
	h.writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Code:    "validation_error",
		Details: details,
	})
}

func (h *Handler) writeInternalError(w http.ResponseWriter) {
	h.writeError(w, http.StatusInternalServerError, "An internal server error occurred", "internal_error")
}
