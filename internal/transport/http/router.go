package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/adiprasetyo/tokoku/internal/handlers"
	"github.com/adiprasetyo/tokoku/internal/service/token"
)

type Deps struct {
	DB             *gorm.DB
	Tokens         *token.TokenService
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	BuyerHandler   *handlers.BuyerHandler
	ProductHandler *handlers.ProductHandler
	VoucherHandler *handlers.VoucherHandler
	RatingHandler  *handlers.RatingHandler
	OrderHandler   *handlers.OrderHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/profile", d.AuthHandler.Profile, d.Tokens.RequireAuth)

	users := api.Group("/users", d.Tokens.RequireAuth)
	users.GET("", d.UserHandler.GetUsers)
	users.GET("/:id", d.UserHandler.GetUser)
	users.POST("", d.UserHandler.CreateUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)

	buyers := api.Group("/buyers")
	buyers.POST("", d.BuyerHandler.RegisterBuyer)
	buyers.GET("", d.BuyerHandler.GetBuyers)
	buyers.GET("/:id", d.BuyerHandler.GetBuyer)
	buyers.PUT("/:id", d.BuyerHandler.UpdateBuyer)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.Tokens.RequireAuth)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Tokens.RequireAuth)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Tokens.RequireAuth)

	vouchers := api.Group("/vouchers")
	vouchers.POST("", d.VoucherHandler.CreateVoucher, d.Tokens.RequireAuth)
	vouchers.GET("", d.VoucherHandler.GetVouchers, d.Tokens.RequireAuth)
	vouchers.POST("/validate", d.VoucherHandler.ValidateVoucher)

	ratings := api.Group("/ratings")
	ratings.POST("", d.RatingHandler.AddRating, d.Tokens.RequireAuth)
	ratings.GET("/product/:productId", d.RatingHandler.GetRatingsByProduct)

	orders := api.Group("/orders", d.Tokens.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetAllOrders)
	orders.GET("/buyer/:buyerId", d.OrderHandler.GetOrdersByBuyer)
	orders.GET("/:orderId", d.OrderHandler.GetOrderDetail)
}
