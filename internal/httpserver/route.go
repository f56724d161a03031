package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware/auth"
)

type Deps struct {
	Auth      *AuthHTTP
	Products  *ProductHTTP
	Cart      *CartHTTP
	Orders    *OrderHTTP
	Payments  *PaymentHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := auth.New(d.JWTSecret)

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		return okData(c, http.StatusOK, map[string]string{"status": "ok"})
	})

	ar := api.Group("/auth")
	ar.POST("/register", d.Auth.Register)
	ar.POST("/login", d.Auth.Login)
	ar.GET("/me", d.Auth.Me, authMW.RequireAuth)
	ar.PUT("/profile", d.Auth.UpdateProfile, authMW.RequireAuth)
	ar.PUT("/password", d.Auth.UpdatePassword, authMW.RequireAuth)

	pr := api.Group("/products")
	pr.GET("", d.Products.List)
	pr.GET("/search", d.Products.Search)
	pr.GET("/categories/list", d.Products.Categories)
	pr.GET("/brands/list", d.Products.Brands)
	pr.GET("/featured/list", d.Products.Featured)
	pr.GET("/:id", d.Products.Get)
	pr.GET("/:id/related", d.Products.Related)
	pr.POST("", d.Products.Create, authMW.RequireAdmin)
	pr.PUT("/:id", d.Products.Update, authMW.RequireAdmin)
	pr.DELETE("/:id", d.Products.Delete, authMW.RequireAdmin)

	cr := api.Group("/cart", authMW.RequireAuth)
	cr.GET("", d.Cart.GetCart)
	cr.POST("/add", d.Cart.AddItem)
	cr.PUT("/update", d.Cart.UpdateItem)
	cr.DELETE("/remove/:productId", d.Cart.RemoveItem)
	cr.DELETE("/clear", d.Cart.Clear)

	or := api.Group("/orders")
	or.POST("", d.Orders.Create, authMW.RequireAuth)
	or.GET("", d.Orders.List, authMW.RequireAdmin)
	or.GET("/myorders", d.Orders.MyOrders, authMW.RequireAuth)
	or.GET("/:id", d.Orders.Get, authMW.RequireAuth)
	or.PUT("/:id/pay", d.Orders.Pay, authMW.RequireAuth)
	or.PUT("/:id/status", d.Orders.UpdateStatus, authMW.RequireAdmin)

	pay := api.Group("/payment")
	pay.GET("/config", d.Payments.Config)
	pay.POST("/create-intent", d.Payments.CreateIntent, authMW.RequireAuth)
	pay.POST("/confirm", d.Payments.Confirm, authMW.RequireAuth)
	pay.POST("/webhook", d.Payments.Webhook)
}
