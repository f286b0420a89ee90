package httpserver

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/pricing"
	"github.com/1di210299/pricing-intelligence-system/pkg/types"
)

// PricingHandler handles HTTP requests for price recommendations.
type PricingHandler struct {
	service *pricing.Service
	logger  *zap.Logger
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(service *pricing.Service, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		logger:  logger,
	}
}

// RecommendationRequest is the POST /price-recommendation body. InternalData,
// when present, replaces the matching engine's output for this call.
type RecommendationRequest struct {
	UPC          string                   `json:"upc"`
	InternalData *types.InternalAggregate `json:"internal_data"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleRecommend handles POST /price-recommendation requests.
func (h *PricingHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Debug("recommendation-request-received",
		zap.String("upc", req.UPC),
		zap.Bool("override", req.InternalData != nil))

	rec, err := h.service.Price(r.Context(), pricing.Request{
		Query:    req.UPC,
		Override: req.InternalData,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err = json.NewEncoder(w).Encode(rec)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeServiceError maps pipeline error kinds to HTTP status codes. Internal
// failures get a generic message; detail stays in the logs.
func (h *PricingHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidQuery):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, types.ErrDataSourceFailure):
		h.writeError(w, "internal data source unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("recommendation-failed", zap.Error(err))
		h.writeError(w, "internal error", http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response.
func (h *PricingHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Error: message}
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
