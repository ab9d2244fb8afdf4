// Command migrate creates or updates the schema and seeds the cookie catalog.
//
//	go run ./cmd/tools/migrate               # schema + catalog
//	go run ./cmd/tools/migrate -admin a@b.c  # also grant admin to an existing user
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"ugiot.co.il/app/internal/db"
	"ugiot.co.il/app/internal/modules/auth"
	"ugiot.co.il/app/internal/modules/newsletter"
	"ugiot.co.il/app/internal/modules/notifications"
	"ugiot.co.il/app/internal/modules/orders"
	"ugiot.co.il/app/internal/modules/products"
	"ugiot.co.il/app/internal/modules/profiles"
	"ugiot.co.il/app/internal/modules/reviews"
)

func main() {
	seed := flag.Bool("seed", true, "insert missing catalog cookies")
	admin := flag.String("admin", "", "email of a user to promote to admin")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	gdb, err := db.Open(dsn, false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err = gdb.WithContext(ctx).Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4").AutoMigrate(
		&auth.User{},
		&auth.Session{},
		&profiles.Profile{},
		&products.Cookie{},
		&orders.Order{},
		&orders.OrderItem{},
		&orders.OrderEvent{},
		&orders.RateLimit{},
		&notifications.Log{},
		&reviews.Review{},
		&newsletter.Subscriber{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	log.Println("✓ schema up to date")

	if *seed {
		if err := products.NewRepo(gdb).Seed(ctx, products.DefaultCatalog()); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		log.Println("✓ catalog seeded")
	}

	if *admin != "" {
		if err := auth.NewRepo(gdb).SetRole(ctx, *admin, auth.RoleAdmin); err != nil {
			log.Fatalf("Failed to promote %s: %v", *admin, err)
		}
		log.Printf("✓ %s is now admin", *admin)
	}
}
