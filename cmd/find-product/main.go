package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/compras/internal/backend"
	"github.com/jafarshop/compras/internal/config"
	"github.com/jafarshop/compras/internal/domain"
	"github.com/jafarshop/compras/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-product/main.go <code or name>")
		fmt.Println("Example: go run cmd/find-product/main.go \"tornillo\"")
		os.Exit(1)
	}

	query := strings.Join(os.Args[1:], " ")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	repos, closeBackend, err := backend.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open backend: %v\n", err)
		os.Exit(1)
	}
	defer closeBackend()

	fmt.Printf("🔍 Searching for products matching: %s\n\n", query)

	catalog := service.NewCatalogService(repos, logger)
	products, err := catalog.SearchProducts(context.Background(), query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to search products: %v\n", err)
		os.Exit(1)
	}

	if len(products) == 0 {
		fmt.Printf("❌ No product matches '%s'.\n", query)
		fmt.Printf("\nMake sure:\n")
		fmt.Printf("  1. The code or part of the name is spelled correctly\n")
		fmt.Printf("  2. The product exists in the inventory backend\n")
		os.Exit(1)
	}

	fmt.Printf("✅ Found %d product(s)\n\n", len(products))
	for _, p := range products {
		gross := domain.LineAmounts(1, p.UnitPrice)
		fmt.Printf("ID: %d\n", p.ID)
		fmt.Printf("Code: %s\n", p.Code)
		fmt.Printf("Name: %s\n", p.Name)
		fmt.Printf("Stock: %d\n", p.Stock)
		fmt.Printf("Unit price: %s\n", domain.FormatMoney(gross.Subtotal))
		fmt.Printf("With tax (12%%): %s\n\n", domain.FormatMoney(gross.Total))
	}
}
