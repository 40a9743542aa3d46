package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/microshop/microshop/internal/handler/dto"
	"github.com/microshop/microshop/internal/service"
)

const productNotFound = "product not found"

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	svc    *service.ProductService
	logger *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes registers the product endpoints on r.
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	r.Get("/products/{id}", h.Get)
	r.Put("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, productNotFound)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get handles GET /products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, productNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.svc.Create(r.Context(), req.ToInput())
	if err != nil {
		handleServiceError(w, h.logger, err, productNotFound)
		return
	}

	h.logger.Info("product_created", "product_id", product.ID.Hex())
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.ToInput())
	if err != nil {
		handleServiceError(w, h.logger, err, productNotFound)
		return
	}

	h.logger.Info("product_updated", "product_id", product.ID.Hex())
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, productNotFound)
		return
	}

	h.logger.Info("product_deleted", "product_id", product.ID.Hex())
	writeJSON(w, http.StatusOK, dto.DeleteProductResponse{
		Message: "product deleted",
		Product: product,
	})
}
