package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/microshop/microshop/internal/handler/dto"
	"github.com/microshop/microshop/internal/service"
)

// AggregateHandler serves the products and users composite view.
type AggregateHandler struct {
	agg    *service.Aggregator
	logger *slog.Logger
}

// NewAggregateHandler creates a new AggregateHandler.
func NewAggregateHandler(agg *service.Aggregator, logger *slog.Logger) *AggregateHandler {
	return &AggregateHandler{
		agg:    agg,
		logger: logger,
	}
}

// Routes registers the composite endpoint on r. chi matches the static
// segment ahead of /products/{id} regardless of registration order.
func (h *AggregateHandler) Routes(r chi.Router) {
	r.Get("/products/with-users", h.WithUsers)
}

// WithUsers handles GET /products/with-users.
// Any branch failure yields a single 502; partial views are never returned.
func (h *AggregateHandler) WithUsers(w http.ResponseWriter, r *http.Request) {
	view, err := h.agg.Aggregate(r.Context())
	if err != nil {
		resp := dto.ErrorResponse{
			Error: "could not query users-api or product store",
			Code:  "AGGREGATION_FAILED",
		}
		var aggErr *service.AggregationError
		if errors.As(err, &aggErr) {
			resp.Source = aggErr.Source
		} else {
			h.logger.Error("aggregation_unexpected_error", "error", err)
		}
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
