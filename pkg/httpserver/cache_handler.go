package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/1di210299/pricing-intelligence-system/internal/reqcache"
)

// CacheHandler exposes the request cache over HTTP.
type CacheHandler struct {
	requests *reqcache.Cache
	logger   *zap.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(requests *reqcache.Cache, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{
		requests: requests,
		logger:   logger,
	}
}

// ClearResponse reports how many entries a flush removed.
type ClearResponse struct {
	Cleared int `json:"cleared"`
}

// HandleStats handles GET /cache/stats requests.
func (h *CacheHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.requests.Stats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(stats)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// HandleClear handles DELETE /cache/clear requests.
func (h *CacheHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	cleared := h.requests.Clear()
	h.logger.Info("request-cache-flushed", zap.Int("cleared", cleared))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(ClearResponse{Cleared: cleared})
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}
