package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/blisscet/store-api/internal/interface/http"
	"github.com/blisscet/store-api/internal/interface/middleware"
	"github.com/blisscet/store-api/pkg/helpers"
)

// DashboardModule wires the admin dashboard under /api/dashboard.
// Every route requires a valid token carrying the admin flag.
type DashboardModule struct {
	Dashboard *handlers.DashboardHandler
	Catalog   *handlers.CatalogHandler
	JWT       *helpers.JWTManager
	Redis     *redis.Client
}

func NewDashboardModule(dashboard *handlers.DashboardHandler, catalog *handlers.CatalogHandler, jwt *helpers.JWTManager, rdb *redis.Client) *DashboardModule {
	return &DashboardModule{Dashboard: dashboard, Catalog: catalog, JWT: jwt, Redis: rdb}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	dash := rg.Group("/dashboard")
	dash.Use(
		middleware.Auth(m.Redis, m.JWT),
		middleware.AdminOnly(),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()),
	)
	{
		dash.GET("/admin", m.Dashboard.ListAdmins)
		dash.POST("/admin", m.Dashboard.CreateAdmin)
		dash.PATCH("/admin/:id", m.Dashboard.SetAdmin)
		dash.DELETE("/admin/:id", m.Dashboard.DeleteAdmin)

		dash.GET("/users", m.Dashboard.ListUsers)
		dash.DELETE("/users/:id", m.Dashboard.DeleteUser)

		dash.GET("/products", m.Catalog.List)
		dash.GET("/products/:id", m.Catalog.Get)
		dash.POST("/products", m.Catalog.Create)
		dash.PATCH("/products/:id", m.Catalog.Update)
		dash.DELETE("/products/:id", m.Catalog.Delete)
	}
}
