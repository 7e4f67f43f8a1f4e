package routes

import (
	"log"
	"net/http"

	_ "translation_desk/docs"
	"translation_desk/internal/adapter/http/handlers"
	"translation_desk/internal/adapter/http/middleware"
	"translation_desk/internal/config"
	"translation_desk/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups the HTTP handlers mounted under /v1.
type Handlers struct {
	Quotes    *handlers.QuoteHandler
	Estimates *handlers.EstimateHandler
	Payments  *handlers.PaymentHandler
}

// NewRouter builds the gin engine with middlewares, swagger and every /v1 route.
func NewRouter(cfg config.HTTPConfig, auth *middleware.Authenticator, h Handlers) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, cfg)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addEstimateRoutes(v1, h.Estimates)
	addQuoteRoutes(v1, auth, h.Quotes, h.Payments)
	return router
}

func setMiddlewares(router *gin.Engine, cfg config.HTTPConfig) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.ErrInternal.ToHTTPError())
	}))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
