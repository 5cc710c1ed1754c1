package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"shopdesk/internal/middleware"
	"shopdesk/internal/store"
)

type Deps struct {
	Store  *store.Store
	Rates  RateSource
	Logger *logrus.Logger

	JWTSecret      string
	PasscodeHash   string
	AccessTokenTTL time.Duration

	// HealthCheck probes the storage backend; nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the HTTP surface. Reads are open; every mutating route
// sits behind the access token guard.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger != nil {
		logger = d.Logger
	}
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.PrometheusMiddleware())
	r.NoRoute(NotFound())

	s := d.Store
	r.GET("/", Home())
	r.GET("/health", Health(d.HealthCheck))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/auth/token", IssueToken(d.JWTSecret, d.PasscodeHash, d.AccessTokenTTL))

	r.GET("/products", GetProducts(s))
	r.GET("/products/:id", GetProduct(s))
	r.GET("/orders", GetOrders(s))
	r.GET("/orders/:id", GetOrder(s))
	r.GET("/database", GetDatabase(s))
	r.GET("/database/:phone", GetPhoneEntry(s))
	r.GET("/notes", GetNotes(s))
	r.GET("/settings", GetSettings(s))
	r.GET("/ui", GetUIState(s))

	if d.Rates != nil {
		r.GET("/currency/rate", GetExchangeRate(d.Rates))
		r.GET("/currency/convert", ConvertCurrency(d.Rates))
	}

	guarded := r.Group("/")
	guarded.Use(middleware.AuthGuard(d.JWTSecret))
	{
		guarded.POST("/products", CreateProduct(s))
		guarded.PUT("/products/:id", UpdateProduct(s))
		guarded.DELETE("/products/:id", DeleteProduct(s))
		guarded.POST("/products/:id/adjust", AdjustProductQuantity(s))
		guarded.POST("/products/:id/image", UploadProductImage(s))

		guarded.POST("/orders", CreateOrder(s))
		guarded.PUT("/orders/:id", UpdateOrder(s))
		guarded.PATCH("/orders/:id/status", UpdateOrderStatus(s))
		guarded.DELETE("/orders/:id", DeleteOrder(s))

		guarded.DELETE("/database/:phone", DeletePhoneEntry(s))
		guarded.DELETE("/database/:phone/orders/:orderId", DeleteDatabaseOrder(s))

		guarded.POST("/notes", CreateNote(s))
		guarded.DELETE("/notes/:id", DeleteNote(s))

		guarded.PATCH("/settings", UpdateSettings(s))
		guarded.POST("/settings/theme/toggle", ToggleTheme(s))

		guarded.PATCH("/ui/filters", UpdateSearchFilters(s))
		guarded.PUT("/ui/sort", SetSortOption(s))
		guarded.PUT("/ui/sidebar", SetSidebar(s))

		if d.Rates != nil {
			guarded.POST("/currency/refresh", RefreshExchangeRate(d.Rates))
		}
	}

	return r
}
