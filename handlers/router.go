package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Products   ProductCatalog
	Categories CategoryLister
	Carts      CartStore
	Orders     OrderWorkflow
	Accounts   AccountService
	Gate       SessionResolver
	DB         Pinger
}

type RouterOptions struct {
	CORSOrigins []string
	// Quiet drops the per-request access log.
	Quiet bool
}

func NewRouter(d Deps, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	if !opts.Quiet {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	api := r.Group("/api")
	api.GET("/ping", Ping(d.DB))
	api.POST("/auth/register", Register(d.Accounts))
	api.POST("/auth/login", Login(d.Accounts))
	api.GET("/categories", ListCategories(d.Categories))
	api.GET("/products", ListProducts(d.Products))
	api.GET("/products/featured", FeaturedProducts(d.Products))
	api.GET("/products/:id", GetProduct(d.Products))

	authed := api.Group("", Auth(d.Gate))
	authed.GET("/auth/me", Me(d.Accounts))
	authed.POST("/users/password", ChangePassword(d.Accounts))

	authed.GET("/cart", GetCart(d.Carts))
	authed.POST("/cart", AddToCart(d.Carts))
	authed.PUT("/cart/:id", UpdateCartItem(d.Carts))
	authed.DELETE("/cart/:id", RemoveCartItem(d.Carts))
	authed.DELETE("/cart", ClearCart(d.Carts))

	authed.POST("/orders", PlaceOrder(d.Orders))
	authed.GET("/orders", ListOrders(d.Orders))
	authed.GET("/orders/:id", GetOrder(d.Orders))
	authed.POST("/orders/:id/cancel", CancelOrder(d.Orders))
	return r
}

func Ping(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "db error"})
			return
		}
		c.String(http.StatusOK, "pong")
	}
}
