package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/blisscet/store-api/internal/interface/http"
	"github.com/blisscet/store-api/internal/interface/middleware"
	"github.com/blisscet/store-api/pkg/helpers"
)

// StoreModule wires the shop-facing routes.
// Public: POST /api/register, POST /api/login, GET /api/products,
// GET /api/products/search.
// Authenticated: cart operations and the user's own settings.
type StoreModule struct {
	Auth    *handlers.AuthHandler
	Cart    *handlers.CartHandler
	Users   *handlers.UserHandler
	Catalog *handlers.CatalogHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewStoreModule(auth *handlers.AuthHandler, cart *handlers.CartHandler, users *handlers.UserHandler, catalog *handlers.CatalogHandler, jwt *helpers.JWTManager, rdb *redis.Client) *StoreModule {
	return &StoreModule{Auth: auth, Cart: cart, Users: users, Catalog: catalog, JWT: jwt, Redis: rdb}
}

func (m *StoreModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Auth.Register)
	rg.POST("/login", loginLimiter, m.Auth.Login)
	rg.GET("/products", m.Catalog.List)
	rg.GET("/products/search", m.Catalog.Search)

	// Authenticated
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Redis, m.JWT))
	auth.Use(
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/products", m.Cart.AddItem)
		auth.PATCH("/products", m.Cart.UpdateCount)
		auth.GET("/cart", m.Cart.Items)
		auth.DELETE("/cart", m.Cart.RemoveItem)
		auth.GET("/userSettings", m.Users.Profile)

		// Account routes act on the path id, owner or admin only
		owned := auth.Group("/")
		owned.Use(middleware.SelfOrAdmin())
		{
			owned.PATCH("/userSettings/:id", m.Users.UpdateProfile)
			owned.PATCH("/userSettingsCP/:id", m.Users.ChangePassword)
			owned.DELETE("/userSettings/:id", m.Users.Delete)
		}
	}
}
