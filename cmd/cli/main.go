package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alextreichler/tiendamanzana/internal/models"
	"github.com/alextreichler/tiendamanzana/internal/store"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	email := addAdminCmd.String("email", "", "Email for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' or 'seed-catalog' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *email == "" || *password == "" {
			fmt.Println("email and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*email, *password)
	case "seed-catalog":
		seedCatalog()
	default:
		fmt.Println("expected 'add-admin' or 'seed-catalog' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./tienda.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}
	return db
}

func createAdmin(email, password string) {
	db := openStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.CreateAdmin(context.Background(), email, string(hashedPassword)); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", email)
}

// seedCatalog inserts a small sample catalog, one or two products per
// category, for local development.
func seedCatalog() {
	db := openStore()
	ctx := context.Background()

	price := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			log.Fatalf("bad seed price %q: %v", s, err)
		}
		return d
	}

	products := []models.Product{
		{Category: models.CategoryPhone, Model: "iPhone 15 Pro", Description: "Titanio, 256 GB", Price: price("999.00")},
		{Category: models.CategoryPhone, Model: "iPhone SE", Description: "Compacto, 128 GB", Price: price("429.00")},
		{Category: models.CategoryLaptop, Model: "MacBook Air M3", Description: "13 pulgadas, 16 GB RAM", Price: price("1099.00")},
		{Category: models.CategoryLaptop, Model: "MacBook Pro M3", Description: "14 pulgadas, 18 GB RAM", Price: price("1599.00")},
		{Category: models.CategoryTablet, Model: "iPad Air", Description: "11 pulgadas, Wi-Fi", Price: price("599.00")},
		{Category: models.CategoryEarbuds, Generation: "AirPods Pro 2", Description: "Cancelación activa de ruido", Price: price("249.00")},
		{Category: models.CategoryAccessory, Kind: "Funda", CompatibleModel: "iPhone 15 Pro", Description: "Silicona con MagSafe", Price: price("49.00")},
		{Category: models.CategoryAccessory, Kind: "Cargador", CompatibleModel: "Universal", Description: "Adaptador USB-C 20W", Price: price("19.00")},
	}

	for i := range products {
		if err := db.CreateProduct(ctx, &products[i]); err != nil {
			log.Fatalf("Failed to seed product %d: %v", i, err)
		}
	}

	fmt.Printf("Seeded %d products.\n", len(products))
}
