package router

import (
	"github.com/blisscet/store-api/internal/application"
	"github.com/blisscet/store-api/internal/container"
	"github.com/blisscet/store-api/internal/infrastructure/mongodb"
	handlers "github.com/blisscet/store-api/internal/interface/http"
	"github.com/blisscet/store-api/internal/router/modules"
)

// InitModules builds the repositories, services and handlers from the
// container and registers the feature modules with the registry. Called
// once during startup.
func InitModules(r *Registry, c *container.Container) {
	users := mongodb.NewUserRepository(c.Mongo)
	products := mongodb.NewProductRepository(c.Mongo)

	jwt := c.JWT

	var emails application.EmailPublisher
	if c.RabbitPub != nil {
		emails = c.RabbitPub
	}

	accounts := application.NewAccountService(users, jwt, c.Redis, emails, c.Logger)
	cart := application.NewCartService(users)
	catalog := application.NewCatalogService(products, c.ES, c.Cfg.ESProductsIndex, c.Logger)
	images := application.NewImageStore(c.GCS, c.Cfg.GCSBucket)

	authHandler := handlers.NewAuthHandler(accounts, images, c.Logger)
	cartHandler := handlers.NewCartHandler(cart, c.Logger)
	userHandler := handlers.NewUserHandler(accounts, images, c.Logger)
	catalogHandler := handlers.NewCatalogHandler(catalog, images, c.Logger)
	dashboardHandler := handlers.NewDashboardHandler(accounts, images, c.Logger)

	r.Add(modules.NewStoreModule(authHandler, cartHandler, userHandler, catalogHandler, jwt, c.Redis))
	r.Add(modules.NewDashboardModule(dashboardHandler, catalogHandler, jwt, c.Redis))
}
