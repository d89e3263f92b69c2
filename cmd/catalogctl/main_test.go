package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/client/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListProducts(ctx context.Context) ([]catalogv1.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogv1.Product), args.Error(1)
}

func (m *MockClient) ListCategories(ctx context.Context) ([]catalogv1.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogv1.Category), args.Error(1)
}

func (m *MockClient) StockValuation(ctx context.Context, nameFilter *string) (catalogv1.StockValuationResponse, error) {
	args := m.Called(ctx, nameFilter)
	return args.Get(0).(catalogv1.StockValuationResponse), args.Error(1)
}

func (m *MockClient) PriceList(ctx context.Context) ([]catalogv1.PriceLine, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogv1.PriceLine), args.Error(1)
}

func (m *MockClient) AdjustPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	return m.Called(ctx, id, price.String()).Error(0)
}

func (m *MockClient) AdjustQuantity(ctx context.Context, id int64, quantity int64) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name         string
		args         []string
		setup        func(m *MockClient)
		expectErr    error
		expectedBody string
	}{
		{
			name: "products",
			args: []string{"products"},
			setup: func(m *MockClient) {
				m.On("ListProducts", ctx).Return([]catalogv1.Product{{ID: 1, Name: "Cola", Price: decimal.RequireFromString("4.00")}}, nil)
			},
			expectedBody: `"name": "Cola"`,
		},
		{
			name: "valuation with filter",
			args: []string{"valuation", "co"},
			setup: func(m *MockClient) {
				m.On("StockValuation", ctx, mock.MatchedBy(func(f *string) bool { return f != nil && *f == "co" })).
					Return(catalogv1.StockValuationResponse{Total: decimal.RequireFromString("400.00")}, nil)
			},
			expectedBody: `"total": "400.00"`,
		},
		{
			name: "set quantity",
			args: []string{"set-quantity", "3", "12"},
			setup: func(m *MockClient) {
				m.On("AdjustQuantity", ctx, int64(3), int64(12)).Return(nil)
			},
			expectedBody: `"quantity": 12`,
		},
		{
			name: "set price not found",
			args: []string{"set-price", "9", "1.50"},
			setup: func(m *MockClient) {
				m.On("AdjustPrice", ctx, int64(9), "1.5").Return(fmt.Errorf("%w: product 9", catalog.ErrNotFound))
			},
			expectErr: catalog.ErrNotFound,
		},
		{
			name:      "service unavailable",
			args:      []string{"categories"},
			setup:     func(m *MockClient) { m.On("ListCategories", ctx).Return([]catalogv1.Category(nil), catalog.ErrServiceUnavailable) },
			expectErr: catalog.ErrServiceUnavailable,
		},
		{name: "no command", args: nil, setup: func(*MockClient) {}, expectErr: errUsage},
		{name: "unknown command", args: []string{"truncate"}, setup: func(*MockClient) {}, expectErr: errUsage},
		{name: "missing price", args: []string{"set-price", "1"}, setup: func(*MockClient) {}, expectErr: errUsage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			client := new(MockClient)
			tc.setup(client)
			var out bytes.Buffer

			// when
			err := execute(ctx, client, tc.args, &out)

			// then
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				assert.Empty(t, out.String())
			} else {
				require.NoError(t, err)
				assert.Contains(t, out.String(), tc.expectedBody)
			}
			client.AssertExpectations(t)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		err := execute(ctx, new(MockClient), []string{"set-quantity", "abc", "1"}, &bytes.Buffer{})
		assert.EqualError(t, err, `invalid id "abc"`)
	})
}
