package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/team0101/shoes-shop/internal/handlers"
	"github.com/team0101/shoes-shop/internal/logging"
	"github.com/team0101/shoes-shop/internal/service"
)

type Deps struct {
	DB              *gorm.DB
	Logger          *slog.Logger
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	PurchaseHandler *handlers.PurchaseHandler
	CatalogHandler  *handlers.CatalogHandler
	SearchHandler   *handlers.SearchHandler
	TokenService    *service.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	if d.Logger != nil {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				req := c.Request()
				l := d.Logger.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
				c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
				return next(c)
			}
		})
	}

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	branches := v1.Group("/branches")
	branches.GET("", d.CatalogHandler.ListBranches)
	branches.GET("/:id", d.CatalogHandler.GetBranch)

	manufacturers := v1.Group("/manufacturers")
	manufacturers.GET("", d.CatalogHandler.ListManufacturers)
	manufacturers.GET("/:id", d.CatalogHandler.GetManufacturer)

	auth := v1.Group("", d.TokenService.AutoRefreshMiddleware)

	auth.POST("/purchases", d.PurchaseHandler.CreatePurchase)
	auth.GET("/orders", d.PurchaseHandler.GetOrders)
	auth.GET("/orders/stale_pickups", d.PurchaseHandler.StalePickups)
	auth.POST("/purchases/:id/return", d.PurchaseHandler.RequestReturn)
	auth.GET("/refunds", d.PurchaseHandler.ListRefunds)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.POST("/branches", d.CatalogHandler.CreateBranch)
	admin.DELETE("/branches/:id", d.CatalogHandler.DeleteBranch)
	admin.POST("/manufacturers", d.CatalogHandler.CreateManufacturer)
	admin.DELETE("/manufacturers/:id", d.CatalogHandler.DeleteManufacturer)

	admin.GET("/customers", d.CatalogHandler.ListCustomers)
	admin.GET("/customers/:id", d.CatalogHandler.GetCustomer)
	admin.POST("/customers", d.CatalogHandler.CreateCustomer)
	admin.DELETE("/customers/:id", d.CatalogHandler.DeleteCustomer)

	admin.GET("/employees", d.CatalogHandler.ListEmployees)
	admin.GET("/employees/:id", d.CatalogHandler.GetEmployee)
	admin.POST("/employees", d.CatalogHandler.CreateEmployee)
	admin.DELETE("/employees/:id", d.CatalogHandler.DeleteEmployee)

	admin.POST("/purchases/:id/status", d.PurchaseHandler.ChangeItemStatus)
	admin.POST("/purchases/:id/pickup", d.PurchaseHandler.RecordPickup)
	admin.POST("/purchases/:id/return/approve", d.PurchaseHandler.ApproveReturn)
}
