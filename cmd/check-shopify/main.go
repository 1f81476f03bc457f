package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/config"
	"github.com/jafarshop/bulkeditor/internal/domain"
	"github.com/jafarshop/bulkeditor/internal/shopify"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Testing Shopify connection...\n\n")
	fmt.Printf("Shop Domain: %s\n", cfg.Shopify.ShopDomain)
	fmt.Printf("API Version: %s\n\n", cfg.Shopify.APIVersion)

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(cfg.Shopify, logger)
	ctx := context.Background()

	email, shopDomain, err := client.ShopIdentity(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection failed: %v\n\n", err)
		fmt.Println("Please check:")
		fmt.Println("  1. SHOPIFY_SHOP_DOMAIN format: should be 'store-name.myshopify.com' (no https://)")
		fmt.Println("  2. SHOPIFY_ACCESS_TOKEN: should start with 'shpat_' and be the full token")
		fmt.Println("  3. The token must have read/write access to products, customers and orders")
		os.Exit(1)
	}

	fmt.Println("Connection OK")
	fmt.Printf("  Shop:  %s\n", shopDomain)
	fmt.Printf("  Owner: %s\n\n", email)

	for _, t := range []domain.ObjectType{domain.ObjectTypeProduct, domain.ObjectTypeCustomer, domain.ObjectTypeOrder} {
		count, err := client.ResourceCount(ctx, t)
		if err != nil {
			fmt.Printf("  %-10s count unavailable: %v\n", t, err)
			continue
		}
		fmt.Printf("  %-10s %d\n", t, count)
	}
}
