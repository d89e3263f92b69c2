// Package catalogv1 defines version 1 of the catalog wire contract:
// the request and response messages, the envelope carrying them and the
// gRPC service description used to exchange envelopes.
package catalogv1

import "github.com/shopspring/decimal"

// Op names a catalog operation on the wire.
type Op string

const (
	OpListProducts   Op = "listProducts"
	OpGetProduct     Op = "getProductById"
	OpListCategories Op = "listCategories"
	OpGetCategory    Op = "getCategoryById"
	OpCreateCategory Op = "createCategory"
	OpUpdateCategory Op = "updateCategory"
	OpDeleteCategory Op = "deleteCategory"
	OpCreateProduct  Op = "createProduct"
	OpAdjustPrice    Op = "adjustPrice"
	OpAdjustQuantity Op = "adjustQuantity"
	OpStockValuation Op = "stockValuation"
	OpPriceList      Op = "priceList"
)

// Request is the closed set of request messages.
type Request interface {
	Op() Op
	isRequest()
}

// Response is the closed set of response messages.
type Response interface {
	Op() Op
	isResponse()
}

// Category is the wire form of a category.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Packaging string `json:"packaging"`
	Version   int64  `json:"version"`
}

// Product is the wire form of a product. CategoryID 0 means no category.
type Product struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	CategoryID int64           `json:"category_id"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Version    int64           `json:"version"`
}

// StockLine is one row of the stock valuation.
type StockLine struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int64           `json:"quantity"`
	Value        decimal.Decimal `json:"value"`
}

// PriceLine is one row of the price list.
type PriceLine struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []Product `json:"products"`
}

type GetProductRequest struct {
	ProductID int64 `json:"product_id"`
}

type GetProductResponse struct {
	Product Product `json:"product"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type GetCategoryRequest struct {
	CategoryID int64 `json:"category_id"`
}

type GetCategoryResponse struct {
	Category Category `json:"category"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name"      validate:"required"`
	Size      string `json:"size"      validate:"required,oneofci=Small Medium Large"`
	Packaging string `json:"packaging" validate:"required,oneofci=Can Glass Plastic Unspecified"`
}

type CreateCategoryResponse struct {
	CategoryID int64    `json:"category_id"`
	Category   Category `json:"category"`
}

// UpdateCategoryRequest replaces all mutable fields of a category.
type UpdateCategoryRequest struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"      validate:"required"`
	Size       string `json:"size"      validate:"required,oneofci=Small Medium Large"`
	Packaging  string `json:"packaging" validate:"required,oneofci=Can Glass Plastic Unspecified"`
}

type UpdateCategoryResponse struct{}

type DeleteCategoryRequest struct {
	CategoryID int64 `json:"category_id"`
}

type DeleteCategoryResponse struct{}

type CreateProductRequest struct {
	Name       string          `json:"name"        validate:"required"`
	CategoryID int64           `json:"category_id" validate:"min=0"`
	Quantity   int64           `json:"quantity"    validate:"min=0"`
	Price      decimal.Decimal `json:"price"       validate:"min=0"`
}

type CreateProductResponse struct {
	ProductID int64   `json:"product_id"`
	Product   Product `json:"product"`
}

// AdjustPriceRequest sets an absolute price; it is not a delta.
type AdjustPriceRequest struct {
	ProductID int64            `json:"product_id"`
	NewPrice  *decimal.Decimal `json:"new_price" validate:"required,min=0"`
}

type AdjustPriceResponse struct{}

// AdjustQuantityRequest sets an absolute quantity; it is not a delta.
type AdjustQuantityRequest struct {
	ProductID   int64  `json:"product_id"`
	NewQuantity *int64 `json:"new_quantity" validate:"required,min=0"`
}

type AdjustQuantityResponse struct{}

// StockValuationRequest optionally narrows the valuation to products whose
// name contains NameFilter, ignoring case.
type StockValuationRequest struct {
	NameFilter *string `json:"name_filter,omitempty"`
}

type StockValuationResponse struct {
	Lines []StockLine     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type PriceListRequest struct{}

type PriceListResponse struct {
	Lines []PriceLine `json:"lines"`
}

func (ListProductsRequest) Op() Op   { return OpListProducts }
func (GetProductRequest) Op() Op     { return OpGetProduct }
func (ListCategoriesRequest) Op() Op { return OpListCategories }
func (GetCategoryRequest) Op() Op    { return OpGetCategory }
func (CreateCategoryRequest) Op() Op { return OpCreateCategory }
func (UpdateCategoryRequest) Op() Op { return OpUpdateCategory }
func (DeleteCategoryRequest) Op() Op { return OpDeleteCategory }
func (CreateProductRequest) Op() Op  { return OpCreateProduct }
func (AdjustPriceRequest) Op() Op    { return OpAdjustPrice }
func (AdjustQuantityRequest) Op() Op { return OpAdjustQuantity }
func (StockValuationRequest) Op() Op { return OpStockValuation }
func (PriceListRequest) Op() Op      { return OpPriceList }

func (ListProductsRequest) isRequest()   {}
func (GetProductRequest) isRequest()     {}
func (ListCategoriesRequest) isRequest() {}
func (GetCategoryRequest) isRequest()    {}
func (CreateCategoryRequest) isRequest() {}
func (UpdateCategoryRequest) isRequest() {}
func (DeleteCategoryRequest) isRequest() {}
func (CreateProductRequest) isRequest()  {}
func (AdjustPriceRequest) isRequest()    {}
func (AdjustQuantityRequest) isRequest() {}
func (StockValuationRequest) isRequest() {}
func (PriceListRequest) isRequest()      {}

func (ListProductsResponse) Op() Op   { return OpListProducts }
func (GetProductResponse) Op() Op     { return OpGetProduct }
func (ListCategoriesResponse) Op() Op { return OpListCategories }
func (GetCategoryResponse) Op() Op    { return OpGetCategory }
func (CreateCategoryResponse) Op() Op { return OpCreateCategory }
func (UpdateCategoryResponse) Op() Op { return OpUpdateCategory }
func (DeleteCategoryResponse) Op() Op { return OpDeleteCategory }
func (CreateProductResponse) Op() Op  { return OpCreateProduct }
func (AdjustPriceResponse) Op() Op    { return OpAdjustPrice }
func (AdjustQuantityResponse) Op() Op { return OpAdjustQuantity }
func (StockValuationResponse) Op() Op { return OpStockValuation }
func (PriceListResponse) Op() Op      { return OpPriceList }

func (ListProductsResponse) isResponse()   {}
func (GetProductResponse) isResponse()     {}
func (ListCategoriesResponse) isResponse() {}
func (GetCategoryResponse) isResponse()    {}
func (CreateCategoryResponse) isResponse() {}
func (UpdateCategoryResponse) isResponse() {}
func (DeleteCategoryResponse) isResponse() {}
func (CreateProductResponse) isResponse()  {}
func (AdjustPriceResponse) isResponse()    {}
func (AdjustQuantityResponse) isResponse() {}
func (StockValuationResponse) isResponse() {}
func (PriceListResponse) isResponse()      {}
