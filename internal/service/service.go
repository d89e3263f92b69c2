// Package service provides the catalog operations exposed to remote clients.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abgdnv/gocatalog/internal/coordinator"
	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/model"
	"github.com/abgdnv/gocatalog/internal/valuation"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/messaging"
	"github.com/abgdnv/gocatalog/pkg/messaging/events"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// CatalogService defines the catalog operations.
// Every error it returns matches one of ErrValidation, ErrNotFound, ErrConflict or ErrUnavailable.
type CatalogService interface {
	// ListProducts returns every product ordered by ID.
	ListProducts(ctx context.Context) ([]catalogv1.Product, error)

	// GetProductByID returns one product.
	// Returns ErrNotFound if no product exists with the given ID.
	GetProductByID(ctx context.Context, id int64) (*catalogv1.Product, error)

	// ListCategories returns every category ordered by ID.
	ListCategories(ctx context.Context) ([]catalogv1.Category, error)

	// GetCategoryByID returns one category.
	// Returns ErrNotFound if no category exists with the given ID.
	GetCategoryByID(ctx context.Context, id int64) (*catalogv1.Category, error)

	// CreateCategory adds a new category.
	// Returns ErrValidation on an empty name or an unknown size or packaging.
	CreateCategory(ctx context.Context, req catalogv1.CreateCategoryRequest) (*catalogv1.Category, error)

	// UpdateCategory replaces name, size and packaging of a category.
	// Returns ErrNotFound or ErrValidation.
	UpdateCategory(ctx context.Context, req catalogv1.UpdateCategoryRequest) (*catalogv1.Category, error)

	// DeleteCategory removes a category no product references.
	// Returns ErrNotFound or ErrConflict.
	DeleteCategory(ctx context.Context, id int64) error

	// CreateProduct adds a new product.
	// Returns ErrValidation, or ErrNotFound if the category does not exist.
	CreateProduct(ctx context.Context, req catalogv1.CreateProductRequest) (*catalogv1.Product, error)

	// AdjustPrice sets the absolute price of a product.
	// Returns ErrValidation on a missing or negative price, or ErrNotFound.
	AdjustPrice(ctx context.Context, req catalogv1.AdjustPriceRequest) (*catalogv1.Product, error)

	// AdjustQuantity sets the absolute quantity of a product.
	// Returns ErrValidation on a missing or negative quantity, or ErrNotFound.
	AdjustQuantity(ctx context.Context, req catalogv1.AdjustQuantityRequest) (*catalogv1.Product, error)

	// StockValuation lists the value of each product and the total.
	// A nil filter keeps every product.
	StockValuation(ctx context.Context, nameFilter *string) (*catalogv1.StockValuationResponse, error)

	// PriceList lists the unit price of each product.
	PriceList(ctx context.Context) ([]catalogv1.PriceLine, error)

	// Dispatch serves any request message.
	Dispatch(ctx context.Context, req catalogv1.Request) (catalogv1.Response, error)
}

// Service implements CatalogService on top of the coordinator.
type Service struct {
	coordinator *coordinator.Coordinator
	publisher   messaging.Publisher
	validate    *validator.Validate
	logger      *slog.Logger
	operations  metric.Int64Counter
}

var _ CatalogService = (*Service)(nil)

// NewService creates a new instance of CatalogService.
func NewService(coord *coordinator.Coordinator, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("catalog-service")
	operations, err := meter.Int64Counter("catalog_operations",
		metric.WithDescription("Total number of catalog operations by outcome"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_operations counter: %v", err))
	}
	return &Service{
		coordinator: coord,
		publisher:   publisher,
		validate:    catalogv1.NewValidator(),
		logger:      logger.With("component", "service"),
		operations:  operations,
	}
}

// ListProducts returns every product.
func (s *Service) ListProducts(ctx context.Context) (_ []catalogv1.Product, err error) {
	defer s.finish(ctx, catalogv1.OpListProducts, &err)
	products, err := s.coordinator.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return toProductDtos(products), nil
}

// GetProductByID returns one product.
func (s *Service) GetProductByID(ctx context.Context, id int64) (_ *catalogv1.Product, err error) {
	defer s.finish(ctx, catalogv1.OpGetProduct, &err)
	p, err := s.coordinator.GetProduct(ctx, model.ProductID(id))
	if err != nil {
		return nil, err
	}
	dto := toProductDto(p)
	return &dto, nil
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) (_ []catalogv1.Category, err error) {
	defer s.finish(ctx, catalogv1.OpListCategories, &err)
	categories, err := s.coordinator.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryDtos(categories), nil
}

// GetCategoryByID returns one category.
func (s *Service) GetCategoryByID(ctx context.Context, id int64) (_ *catalogv1.Category, err error) {
	defer s.finish(ctx, catalogv1.OpGetCategory, &err)
	c, err := s.coordinator.GetCategory(ctx, model.CategoryID(id))
	if err != nil {
		return nil, err
	}
	dto := toCategoryDto(c)
	return &dto, nil
}

// CreateCategory adds a new category.
func (s *Service) CreateCategory(ctx context.Context, req catalogv1.CreateCategoryRequest) (_ *catalogv1.Category, err error) {
	defer s.finish(ctx, catalogv1.OpCreateCategory, &err)
	name, size, packaging, err := s.categoryFields(req, req.Name, req.Size, req.Packaging)
	if err != nil {
		return nil, err
	}
	created, err := s.coordinator.CreateCategory(ctx, name, size, packaging)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, categoryEvent(events.Created, created, s.carrier(ctx)))
	dto := toCategoryDto(created)
	return &dto, nil
}

// UpdateCategory replaces the fields of a category.
func (s *Service) UpdateCategory(ctx context.Context, req catalogv1.UpdateCategoryRequest) (_ *catalogv1.Category, err error) {
	defer s.finish(ctx, catalogv1.OpUpdateCategory, &err)
	name, size, packaging, err := s.categoryFields(req, req.Name, req.Size, req.Packaging)
	if err != nil {
		return nil, err
	}
	updated, err := s.coordinator.UpdateCategory(ctx, model.CategoryID(req.CategoryID), name, size, packaging)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, categoryEvent(events.Updated, updated, s.carrier(ctx)))
	dto := toCategoryDto(updated)
	return &dto, nil
}

// DeleteCategory removes an unreferenced category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) (err error) {
	defer s.finish(ctx, catalogv1.OpDeleteCategory, &err)
	if err := s.coordinator.DeleteCategory(ctx, model.CategoryID(id)); err != nil {
		return err
	}
	s.publish(ctx, categoryEvent(events.Deleted, model.Category{ID: model.CategoryID(id)}, s.carrier(ctx)))
	return nil
}

// CreateProduct adds a new product.
func (s *Service) CreateProduct(ctx context.Context, req catalogv1.CreateProductRequest) (_ *catalogv1.Product, err error) {
	defer s.finish(ctx, catalogv1.OpCreateProduct, &err)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	created, err := s.coordinator.CreateProduct(ctx, req.Name, model.CategoryID(req.CategoryID), req.Quantity, req.Price)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, productEvent(events.Created, created, s.carrier(ctx)))
	dto := toProductDto(created)
	return &dto, nil
}

// AdjustPrice sets the price of a product.
func (s *Service) AdjustPrice(ctx context.Context, req catalogv1.AdjustPriceRequest) (_ *catalogv1.Product, err error) {
	defer s.finish(ctx, catalogv1.OpAdjustPrice, &err)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := model.ValidatePrice(*req.NewPrice); err != nil {
		return nil, err
	}
	updated, err := s.coordinator.AdjustPrice(ctx, model.ProductID(req.ProductID), *req.NewPrice)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, productEvent(events.Updated, updated, s.carrier(ctx)))
	dto := toProductDto(updated)
	return &dto, nil
}

// AdjustQuantity sets the quantity of a product.
func (s *Service) AdjustQuantity(ctx context.Context, req catalogv1.AdjustQuantityRequest) (_ *catalogv1.Product, err error) {
	defer s.finish(ctx, catalogv1.OpAdjustQuantity, &err)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := model.ValidateQuantity(*req.NewQuantity); err != nil {
		return nil, err
	}
	updated, err := s.coordinator.AdjustQuantity(ctx, model.ProductID(req.ProductID), *req.NewQuantity)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, productEvent(events.Updated, updated, s.carrier(ctx)))
	dto := toProductDto(updated)
	return &dto, nil
}

// StockValuation computes the stock lines and their total.
func (s *Service) StockValuation(ctx context.Context, nameFilter *string) (_ *catalogv1.StockValuationResponse, err error) {
	defer s.finish(ctx, catalogv1.OpStockValuation, &err)
	products, err := s.coordinator.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.coordinator.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	lines := valuation.ListAll(products, categories)
	if nameFilter != nil {
		lines = valuation.FilterByNameContains(lines, *nameFilter)
	}
	return &catalogv1.StockValuationResponse{
		Lines: toStockLineDtos(lines),
		Total: valuation.TotalValue(lines),
	}, nil
}

// PriceList returns the unit price of every product.
func (s *Service) PriceList(ctx context.Context) (_ []catalogv1.PriceLine, err error) {
	defer s.finish(ctx, catalogv1.OpPriceList, &err)
	products, err := s.coordinator.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.coordinator.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return toPriceLineDtos(valuation.PriceList(products, categories)), nil
}

// categoryFields validates a category request and converts its enum names.
func (s *Service) categoryFields(req any, name, size, packaging string) (string, model.Size, model.Packaging, error) {
	if err := s.validateRequest(req); err != nil {
		return "", 0, 0, err
	}
	trimmed, err := model.ValidateName(name)
	if err != nil {
		return "", 0, 0, err
	}
	parsedSize, err := model.ParseSize(size)
	if err != nil {
		return "", 0, 0, err
	}
	parsedPackaging, err := model.ParsePackaging(packaging)
	if err != nil {
		return "", 0, 0, err
	}
	return trimmed, parsedSize, parsedPackaging, nil
}

// validateRequest checks the request shape before anything reaches the coordinator.
func (s *Service) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		failed := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			failed = append(failed, fieldErr.Field()+" failed on rule: "+fieldErr.Tag())
		}
		return fmt.Errorf("%w: %s", catalogerrors.ErrValidation, strings.Join(failed, "; "))
	}
	return fmt.Errorf("%w: %v", catalogerrors.ErrValidation, err)
}

// carrier captures the trace context so consumers can continue the trace.
func (s *Service) carrier(ctx context.Context) map[string]string {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// publish sends an event after a committed change. Failures are logged only;
// the change itself has already been applied.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

// finish classifies the outcome of an operation. Recovered panics and
// unclassified errors become ErrUnavailable.
func (s *Service) finish(ctx context.Context, op catalogv1.Op, errp *error) {
	if r := recover(); r != nil {
		s.logger.ErrorContext(ctx, "Panic recovered", "op", op, "panic", r)
		*errp = fmt.Errorf("%w: internal error", catalogerrors.ErrUnavailable)
	}
	outcome := "ok"
	if *errp != nil {
		kind := catalogerrors.Kind(*errp)
		if kind == nil {
			s.logger.ErrorContext(ctx, "Operation failed", "op", op, "error", *errp)
			*errp = fmt.Errorf("%w: internal error", catalogerrors.ErrUnavailable)
			kind = catalogerrors.ErrUnavailable
		}
		outcome = kind.Error()
	}
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", string(op)),
		attribute.String("outcome", outcome),
	))
}
