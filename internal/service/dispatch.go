package service

import (
	"context"
	"fmt"

	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
)

// Dispatch routes a request message to the matching operation and wraps the result
// in the response message for the same op.
func (s *Service) Dispatch(ctx context.Context, req catalogv1.Request) (catalogv1.Response, error) {
	switch r := req.(type) {
	case catalogv1.ListProductsRequest:
		products, err := s.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		return catalogv1.ListProductsResponse{Products: products}, nil

	case catalogv1.GetProductRequest:
		product, err := s.GetProductByID(ctx, r.ProductID)
		if err != nil {
			return nil, err
		}
		return catalogv1.GetProductResponse{Product: *product}, nil

	case catalogv1.ListCategoriesRequest:
		categories, err := s.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return catalogv1.ListCategoriesResponse{Categories: categories}, nil

	case catalogv1.GetCategoryRequest:
		category, err := s.GetCategoryByID(ctx, r.CategoryID)
		if err != nil {
			return nil, err
		}
		return catalogv1.GetCategoryResponse{Category: *category}, nil

	case catalogv1.CreateCategoryRequest:
		category, err := s.CreateCategory(ctx, r)
		if err != nil {
			return nil, err
		}
		return catalogv1.CreateCategoryResponse{CategoryID: category.ID, Category: *category}, nil

	case catalogv1.UpdateCategoryRequest:
		if _, err := s.UpdateCategory(ctx, r); err != nil {
			return nil, err
		}
		return catalogv1.UpdateCategoryResponse{}, nil

	case catalogv1.DeleteCategoryRequest:
		if err := s.DeleteCategory(ctx, r.CategoryID); err != nil {
			return nil, err
		}
		return catalogv1.DeleteCategoryResponse{}, nil

	case catalogv1.CreateProductRequest:
		product, err := s.CreateProduct(ctx, r)
		if err != nil {
			return nil, err
		}
		return catalogv1.CreateProductResponse{ProductID: product.ID, Product: *product}, nil

	case catalogv1.AdjustPriceRequest:
		if _, err := s.AdjustPrice(ctx, r); err != nil {
			return nil, err
		}
		return catalogv1.AdjustPriceResponse{}, nil

	case catalogv1.AdjustQuantityRequest:
		if _, err := s.AdjustQuantity(ctx, r); err != nil {
			return nil, err
		}
		return catalogv1.AdjustQuantityResponse{}, nil

	case catalogv1.StockValuationRequest:
		valuation, err := s.StockValuation(ctx, r.NameFilter)
		if err != nil {
			return nil, err
		}
		return *valuation, nil

	case catalogv1.PriceListRequest:
		lines, err := s.PriceList(ctx)
		if err != nil {
			return nil, err
		}
		return catalogv1.PriceListResponse{Lines: lines}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported request %T", catalogerrors.ErrValidation, req)
	}
}
