// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/service"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PriceUpdateDto sets the absolute price of a product.
type PriceUpdateDto struct {
	Price *decimal.Decimal `json:"price" validate:"required,min=0"`
}

// QuantityUpdateDto sets the absolute quantity of a product.
type QuantityUpdateDto struct {
	Quantity *int64 `json:"quantity" validate:"required,min=0"`
}

// CategoryDto carries the mutable fields of a category.
type CategoryDto struct {
	Name      string `json:"name"      validate:"required"`
	Size      string `json:"size"      validate:"required,oneofci=Small Medium Large"`
	Packaging string `json:"packaging" validate:"required,oneofci=Can Glass Plastic Unspecified"`
}

type Handler struct {
	service  service.CatalogService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: catalogv1.NewValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetCategory)
				r.Put("/", h.UpdateCategory)
				r.Delete("/", h.DeleteCategory)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProduct)
				r.Put("/price", h.AdjustPrice)
				r.Put("/quantity", h.AdjustQuantity)
			})
		})

		r.Get("/valuation", h.StockValuation)
		r.Get("/pricelist", h.PriceList)
	})

	r.Get("/healthz", h.HealthCheck)
}

// ListCategories retrieves every category.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch categories")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved category list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// GetCategory retrieves a category by its ID.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.GetCategoryByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve category")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// CreateCategory handles the creation of a new category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	created, err := h.service.CreateCategory(r.Context(), catalogv1.CreateCategoryRequest{
		Name:      dto.Name,
		Size:      dto.Size,
		Packaging: dto.Packaging,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create category")
		return
	}
	h.logger.InfoContext(r.Context(), "Category created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// UpdateCategory replaces name, size and packaging of a category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var dto CategoryDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	updated, err := h.service.UpdateCategory(r.Context(), catalogv1.UpdateCategoryRequest{
		CategoryID: id,
		Name:       dto.Name,
		Size:       dto.Size,
		Packaging:  dto.Packaging,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update category")
		return
	}
	h.logger.InfoContext(r.Context(), "Category updated successfully", "ID", updated.ID, "Version", updated.Version)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteCategory deletes a category no product references.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete category")
		return
	}
	h.logger.InfoContext(r.Context(), "Category deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts retrieves every product.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// GetProduct retrieves a product by its ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// CreateProduct handles the creation of a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalogv1.CreateProductRequest
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &req) {
		return
	}
	created, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// AdjustPrice sets the price of a product.
func (h *Handler) AdjustPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var dto PriceUpdateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	updated, err := h.service.AdjustPrice(r.Context(), catalogv1.AdjustPriceRequest{ProductID: id, NewPrice: dto.Price})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update price")
		return
	}
	h.logger.InfoContext(r.Context(), "Price updated successfully", "ID", updated.ID, "Price", updated.Price)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// AdjustQuantity sets the quantity of a product.
func (h *Handler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var dto QuantityUpdateDto
	if !web.DecodeAndValidate(w, r, h.logger, h.validate, &dto) {
		return
	}
	updated, err := h.service.AdjustQuantity(r.Context(), catalogv1.AdjustQuantityRequest{ProductID: id, NewQuantity: dto.Quantity})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update quantity")
		return
	}
	h.logger.InfoContext(r.Context(), "Quantity updated successfully", "ID", updated.ID, "Quantity", updated.Quantity)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// StockValuation reports the value of the stock. The optional name query
// parameter narrows it to products whose name contains the value.
func (h *Handler) StockValuation(w http.ResponseWriter, r *http.Request) {
	var nameFilter *string
	if query := r.URL.Query(); query.Has("name") {
		name := query.Get("name")
		nameFilter = &name
	}
	report, err := h.service.StockValuation(r.Context(), nameFilter)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to compute stock valuation")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, report)
}

// PriceList reports the unit price of every product.
func (h *Handler) PriceList(w http.ResponseWriter, r *http.Request) {
	lines, err := h.service.PriceList(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to compute price list")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, lines)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondServiceError maps a catalog error kind to an HTTP status.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, catalogerrors.ErrValidation):
		h.logger.WarnContext(r.Context(), "Rejected invalid request", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogerrors.ErrNotFound):
		h.logger.WarnContext(r.Context(), "Entity not found", "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, err.Error())
	case errors.Is(err, catalogerrors.ErrConflict):
		h.logger.WarnContext(r.Context(), "Conflicting request", "error", err)
		web.RespondError(w, h.logger, http.StatusConflict, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), fallback, "error", err)
		web.RespondError(w, h.logger, http.StatusServiceUnavailable, fallback)
	}
}
