// Package main is a command-line client for the catalog service.
//
//	catalogctl products
//	catalogctl categories
//	catalogctl valuation [name-filter]
//	catalogctl pricelist
//	catalogctl set-price <product-id> <price>
//	catalogctl set-quantity <product-id> <quantity>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/abgdnv/gocatalog/internal/config"
	catalogv1 "github.com/abgdnv/gocatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/gocatalog/pkg/client/catalog"
	"github.com/abgdnv/gocatalog/pkg/config/configloader"
	"github.com/shopspring/decimal"
)

const serviceName = "catalogctl"

var errUsage = errors.New("usage: catalogctl products|categories|valuation [filter]|pricelist|set-price <id> <price>|set-quantity <id> <qty>")

// catalogClient is the part of catalog.Client the commands use.
type catalogClient interface {
	ListProducts(ctx context.Context) ([]catalogv1.Product, error)
	ListCategories(ctx context.Context) ([]catalogv1.Category, error)
	StockValuation(ctx context.Context, nameFilter *string) (catalogv1.StockValuationResponse, error)
	PriceList(ctx context.Context) ([]catalogv1.PriceLine, error)
	AdjustPrice(ctx context.Context, id int64, price decimal.Decimal) error
	AdjustQuantity(ctx context.Context, id int64, quantity int64) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Printf("catalogctl: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := configloader.Load[*config.CtlConfig](serviceName, configloader.WithFile(serviceName+".yaml"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	client, err := catalog.Dial(cfg.GrpcClient, cfg.Resilience)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("failed to close catalog client: %v", err)
		}
	}()
	return execute(ctx, client, args, os.Stdout)
}

// execute runs one command and writes its JSON result to out.
func execute(ctx context.Context, client catalogClient, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	var (
		result any
		err    error
	)
	switch cmd, rest := args[0], args[1:]; cmd {
	case "products":
		result, err = client.ListProducts(ctx)
	case "categories":
		result, err = client.ListCategories(ctx)
	case "valuation":
		var filter *string
		if len(rest) > 0 {
			filter = &rest[0]
		}
		result, err = client.StockValuation(ctx, filter)
	case "pricelist":
		result, err = client.PriceList(ctx)
	case "set-price":
		if len(rest) != 2 {
			return errUsage
		}
		id, parseErr := parseID(rest[0])
		if parseErr != nil {
			return parseErr
		}
		price, parseErr := decimal.NewFromString(rest[1])
		if parseErr != nil {
			return fmt.Errorf("invalid price %q: %w", rest[1], parseErr)
		}
		err = client.AdjustPrice(ctx, id, price)
		result = map[string]any{"product_id": id, "price": price}
	case "set-quantity":
		if len(rest) != 2 {
			return errUsage
		}
		id, parseErr := parseID(rest[0])
		if parseErr != nil {
			return parseErr
		}
		quantity, parseErr := strconv.ParseInt(rest[1], 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid quantity %q: %w", rest[1], parseErr)
		}
		err = client.AdjustQuantity(ctx, id, quantity)
		result = map[string]any{"product_id": id, "quantity": quantity}
	default:
		return errUsage
	}
	if err != nil {
		if catalog.IsRetryable(err) {
			return fmt.Errorf("%w (try again later)", err)
		}
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
