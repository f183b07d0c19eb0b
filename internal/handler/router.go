package handler

import (
	_ "ItemList/docs"
	"ItemList/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterOptions struct {
	AllowAllOrigins bool
	AllowedOrigins  []string
	AccessKey       string
	RateLimit       float64
	RateBurst       int
}

// NewRouter wires the list page, the REST API and the live websocket.
// Mutations and the websocket sit behind the access key; mutations are
// also rate limited per client IP.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	if opts.AllowAllOrigins || len(opts.AllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = opts.AllowedOrigins
	}
	config.AllowHeaders = append(config.AllowHeaders, middleware.AccessKeyHeader)
	router.Use(cors.New(config))

	router.GET("/", h.Index)
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	accessKey := middleware.AccessKeyMiddleware(opts.AccessKey)

	api := router.Group("/api")
	{
		api.GET("/items", h.ListItems)
		api.GET("/items/:id", h.GetItem)
	}

	protected := router.Group("/api").Use(accessKey, middleware.RateLimitMiddleware(opts.RateLimit, opts.RateBurst))
	{
		protected.POST("/items", h.CreateItem)
		protected.POST("/items/delete", h.DeleteItemsAt)
		protected.DELETE("/items/:id", h.DeleteItem)
	}

	router.GET("/ws/items", accessKey, h.HandleLiveList)
	return router
}
