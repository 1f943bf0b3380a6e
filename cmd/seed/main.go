package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/blisscet/store-api/config"
	"github.com/blisscet/store-api/internal/domain/entity"
	"github.com/blisscet/store-api/internal/domain/repository"
	"github.com/blisscet/store-api/internal/infrastructure/mongodb"
	"github.com/blisscet/store-api/pkg/helpers"
)

// Seeds a local database with an admin account and a few products so the
// dashboard is reachable on a fresh install.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoConnTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	products := mongodb.NewProductRepository(db)

	if err := seedAdmin(ctx, users); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err := seedProducts(ctx, products); err != nil {
		log.Fatalf("failed to seed products: %v", err)
	}
	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	const adminEmail = "admin@example.com"

	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		log.Println("admin account already present")
		return nil
	}

	hash, err := helpers.HashPassword("changeme123")
	if err != nil {
		return err
	}
	admin := &entity.User{
		Username:   "admin",
		FirstName:  "Store",
		LastName:   "Admin",
		Email:      adminEmail,
		Password:   hash,
		UserAvatar: entity.DefaultAvatar(),
		Admin:      true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("created admin %s (password: changeme123, change it)", adminEmail)
	return nil
}

func seedProducts(ctx context.Context, products repository.ProductRepository) error {
	existing, err := products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("catalog already has %d products, skipping", len(existing))
		return nil
	}

	starter := []entity.Product{
		{Name: "Classic Tee", Category: "apparel", Price: 19.99, Count: 1},
		{Name: "Canvas Tote", Category: "accessories", Price: 12.50, Count: 1},
		{Name: "Enamel Mug", Category: "kitchen", Price: 9.95, Count: 1},
	}
	for i := range starter {
		if err := products.Create(ctx, &starter[i]); err != nil {
			return err
		}
	}
	log.Printf("inserted %d starter products", len(starter))
	return nil
}
