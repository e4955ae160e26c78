package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/phenrril/maison/internal/usecase"
)

// Options carries the settings the HTTP surface needs from config.
type Options struct {
	StoreName      string
	SessionKey     []byte
	AdminToken     string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	CartTTL        time.Duration
	Secure         bool
}

type Server struct {
	engine  *gin.Engine
	catalog *usecase.CatalogUC
	carts   *usecase.CartUC
	orders  *usecase.OrderUC
	limiter *RateLimiter
	opts    Options
}

func New(catalog *usecase.CatalogUC, carts *usecase.CartUC, orders *usecase.OrderUC, opts Options) *Server {
	if len(opts.SessionKey) == 0 {
		opts.SessionKey = []byte("dev-insecure")
	}
	if opts.CartTTL <= 0 {
		opts.CartTTL = 7 * 24 * time.Hour
	}
	s := &Server{
		engine:  gin.New(),
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		limiter: NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		opts:    opts,
	}

	s.engine.Use(
		Recovery(),
		RequestID(),
		Logging(),
		SecurityHeaders(),
		cors.New(corsConfig(opts.CORSOrigins)),
		s.limiter.Middleware(),
	)
	s.routes()
	return s
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", adminTokenHeader, requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := s.engine.Group("/api/v1")

	store := api.Group("/store")
	store.GET("/products", s.listProducts)
	store.GET("/products/:slug", s.getProduct)
	store.GET("/filters/metadata", s.filtersMetadata)

	cartAPI := api.Group("/cart")
	cartAPI.GET("", s.getCart)
	cartAPI.DELETE("", s.clearCart)
	cartAPI.POST("/items", s.addCartItem)
	cartAPI.POST("/items/increment", s.lineHandler(s.carts.Increment))
	cartAPI.POST("/items/decrement", s.lineHandler(s.carts.Decrement))
	cartAPI.DELETE("/items", s.lineHandler(s.carts.Remove))

	api.POST("/checkout", s.checkout)
	api.GET("/orders/:id", s.getOrder)
	api.GET("/orders/:id/invoice.pdf", s.orderInvoice)

	admin := api.Group("/admin", s.requireAdmin)
	admin.GET("/orders", s.adminOrders)
	admin.PATCH("/orders/:id/status", s.adminOrderStatus)
	admin.GET("/stats", s.adminStats)
	admin.POST("/catalog/import", s.adminImport)
	admin.GET("/catalog/export.xlsx", s.adminExportXLSX)
	admin.GET("/catalog/export.csv", s.adminExportCSV)
	admin.PUT("/catalog/:slug/position", s.adminSetPosition)
	admin.DELETE("/catalog/:slug", s.adminDeleteProduct)
}
