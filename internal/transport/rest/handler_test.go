package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abgdnv/gocatalog/internal/catalog"
	"github.com/abgdnv/gocatalog/internal/coordinator"
	catalogerrors "github.com/abgdnv/gocatalog/internal/errors"
	"github.com/abgdnv/gocatalog/internal/service"
	"github.com/abgdnv/gocatalog/internal/store"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/messaging"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// failingService answers every call with the same error.
type failingService struct {
	service.CatalogService
	err error
}

func (f failingService) ListProducts(context.Context) ([]catalogv1.Product, error) {
	return nil, f.err
}

func (f failingService) DeleteCategory(context.Context, int64) error {
	return f.err
}

func newTestRouter(t *testing.T, svc service.CatalogService) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if svc == nil {
		coord := coordinator.New(catalog.New(store.NewInMemoryStore()), logger)
		svc = service.NewService(coord, messaging.NoopPublisher{}, logger)
	}
	mux := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func Test_Handler_ValuationScenario(t *testing.T) {
	// given
	router := newTestRouter(t, nil)
	rr := doRequest(t, router, http.MethodPost, "/api/v1/categories", `{"name":"Beverages","size":"Medium","packaging":"Can"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var category catalogv1.Category
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &category))

	rr = doRequest(t, router, http.MethodPost, "/api/v1/products",
		fmt.Sprintf(`{"name":"Cola","category_id":%d,"quantity":100,"price":"3.50"}`, category.ID))
	require.Equal(t, http.StatusCreated, rr.Code)
	var product catalogv1.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))

	// when
	rr = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/products/%d/price", product.ID), `{"price":"4.00"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doRequest(t, router, http.MethodGet, "/api/v1/valuation", "")

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var report catalogv1.StockValuationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "Beverages", report.Lines[0].CategoryName)
	assert.Equal(t, "400.00", report.Total.StringFixed(2))
	assert.Contains(t, rr.Body.String(), `"total":"400.00"`, "amounts carry two decimals on the wire")
	assert.Contains(t, rr.Body.String(), `"price":"4.00"`)
}

func Test_Handler_CreateProduct(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - no category",
			body:         `{"name":"Water","quantity":1,"price":1}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Error - unknown category",
			body:         `{"name":"X","category_id":9999,"quantity":1,"price":"1.0"}`,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Error - negative quantity",
			body:         `{"name":"X","quantity":-1,"price":"1.0"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Quantity":"failed on rule: min"}}`,
		},
		{
			name:         "Error - missing name",
			body:         `{"quantity":1,"price":"1.0"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"Name":"failed on rule: required"}}`,
		},
		{
			name:         "Error - malformed body",
			body:         `{"name":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newTestRouter(t, nil)

			// when
			rr := doRequest(t, router, http.MethodPost, "/api/v1/products", tc.body)

			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			}
		})
	}
}

func Test_Handler_AdjustQuantity(t *testing.T) {
	testCases := []struct {
		name         string
		path         string
		body         string
		expectedCode int
	}{
		{name: "Success", path: "/api/v1/products/1/quantity", body: `{"quantity":0}`, expectedCode: http.StatusOK},
		{name: "Error - missing quantity", path: "/api/v1/products/1/quantity", body: `{}`, expectedCode: http.StatusBadRequest},
		{name: "Error - negative quantity", path: "/api/v1/products/1/quantity", body: `{"quantity":-3}`, expectedCode: http.StatusBadRequest},
		{name: "Error - unknown product", path: "/api/v1/products/2/quantity", body: `{"quantity":3}`, expectedCode: http.StatusNotFound},
		{name: "Error - invalid id", path: "/api/v1/products/abc/quantity", body: `{"quantity":3}`, expectedCode: http.StatusBadRequest},
		{name: "Error - zero id", path: "/api/v1/products/0/quantity", body: `{"quantity":3}`, expectedCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newTestRouter(t, nil)
			rr := doRequest(t, router, http.MethodPost, "/api/v1/products", `{"name":"Cola","quantity":10,"price":"1.00"}`)
			require.Equal(t, http.StatusCreated, rr.Code)

			// when
			rr = doRequest(t, router, http.MethodPut, tc.path, tc.body)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
		})
	}
}

func Test_Handler_CategoryLifecycle(t *testing.T) {
	// given
	router := newTestRouter(t, nil)
	rr := doRequest(t, router, http.MethodPost, "/api/v1/categories", `{"name":"Snacks","size":"small","packaging":"plastic"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doRequest(t, router, http.MethodPost, "/api/v1/products", `{"name":"Chips","category_id":1,"quantity":1,"price":"2"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	// when
	updated := doRequest(t, router, http.MethodPut, "/api/v1/categories/1", `{"name":"Crisps","size":"Large","packaging":"Glass"}`)
	conflict := doRequest(t, router, http.MethodDelete, "/api/v1/categories/1", "")
	badEnum := doRequest(t, router, http.MethodPost, "/api/v1/categories", `{"name":"Odd","size":"Huge","packaging":"Can"}`)
	missing := doRequest(t, router, http.MethodGet, "/api/v1/categories/7", "")

	// then
	require.Equal(t, http.StatusOK, updated.Code)
	var category catalogv1.Category
	require.NoError(t, json.Unmarshal(updated.Body.Bytes(), &category))
	assert.Equal(t, "Crisps", category.Name)
	assert.Equal(t, int64(2), category.Version)
	assert.Equal(t, http.StatusConflict, conflict.Code)
	assert.JSONEq(t, `{"validation_errors":{"Size":"failed on rule: oneofci"}}`, badEnum.Body.String())
	assert.Equal(t, http.StatusNotFound, missing.Code)

	rr = doRequest(t, router, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var categories []catalogv1.Category
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &categories))
	assert.Len(t, categories, 1)
}

func Test_Handler_StockValuation_Filter(t *testing.T) {
	// given
	router := newTestRouter(t, nil)
	for _, name := range []string{"Cola", "Water"} {
		rr := doRequest(t, router, http.MethodPost, "/api/v1/products", fmt.Sprintf(`{"name":%q,"quantity":2,"price":"1.50"}`, name))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	// when
	rr := doRequest(t, router, http.MethodGet, "/api/v1/valuation?name=wat", "")

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var report catalogv1.StockValuationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "Water", report.Lines[0].Name)
	assert.Equal(t, "3.00", report.Total.StringFixed(2))
}

func Test_Handler_ServiceErrors(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		method       string
		target       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Error - unavailable",
			err:          catalogerrors.ErrUnavailable,
			method:       http.MethodGet,
			target:       "/api/v1/products",
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to fetch products"}),
		},
		{
			name:         "Error - conflict",
			err:          fmt.Errorf("%w: category 1 is referenced by 2 product(s)", catalogerrors.ErrConflict),
			method:       http.MethodDelete,
			target:       "/api/v1/categories/1",
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: "conflict: category 1 is referenced by 2 product(s)"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newTestRouter(t, failingService{err: tc.err})

			// when
			rr := doRequest(t, router, tc.method, tc.target, "")

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_HealthCheck(t *testing.T) {
	rr := doRequest(t, newTestRouter(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v any) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}
