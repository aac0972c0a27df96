package handler

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"portfolio_tracker_back/pkg/middleware"
	"portfolio_tracker_back/pkg/service"
	"portfolio_tracker_back/pkg/session"
)

func init() {
	// Report json names ("assetId") instead of struct field names in
	// validation errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	}
}

type Config struct {
	AllowOrigins []string
	SessionTTL   time.Duration
	SecureCookie bool
}

type Handler struct {
	service  *service.Service
	sessions session.Store
	cfg      Config
}

func NewHandler(service *service.Service, sessions session.Store, cfg Config) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		cfg:      cfg,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logrus.StandardLogger().Writer()), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     h.cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", h.Health)

	api := router.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)

		market := api.Group("/market")
		{
			market.GET("/top", h.TopAssets)
			market.GET("/trending", h.Trending)
			market.GET("/news", h.News)
		}

		authed := api.Group("", middleware.Auth(h.sessions))
		{
			authed.GET("/user", h.GetUser)

			portfolio := authed.Group("/portfolio")
			{
				portfolio.GET("", h.GetPortfolio)
				portfolio.POST("/assets", h.AddAsset)
				portfolio.POST("/wallets", h.AddWallet)
				portfolio.POST("/refresh-balances", h.RefreshBalances)
			}
		}
	}
	return router
}

func (h *Handler) Health(c *gin.Context) {
	wrapOkJSON(c, map[string]interface{}{
		"status": "ok",
	})
}
