package httpapi

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/aquavo/support-backend/internal/ai"
	"github.com/aquavo/support-backend/internal/config"
	"github.com/aquavo/support-backend/internal/dedupe"
	"github.com/aquavo/support-backend/internal/escalation"
	"github.com/aquavo/support-backend/internal/http/handlers"
	"github.com/aquavo/support-backend/internal/http/middleware"

	_ "github.com/aquavo/support-backend/docs"
)

type Deps struct {
	DB        handlers.Pinger
	Scorer    handlers.Evaluator
	Tickets   handlers.TicketService
	Dedupe    dedupe.Guard
	Assistant ai.Assistant
	Turns     escalation.TurnReader
}

func Router(cfg config.Config, deps Deps, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORSAllowed, ",")
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		DB:           deps.DB,
		Scorer:       deps.Scorer,
		Tickets:      deps.Tickets,
		Dedupe:       deps.Dedupe,
		Assistant:    deps.Assistant,
		Turns:        deps.Turns,
		Validator:    validator.New(),
		Logger:       logger,
		HistoryLimit: cfg.HistoryLimit,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/conversations/:id/escalation", h.Escalate)
	}

	admin := api.Group("/support")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.GET("/tickets", h.SupportTicketsList)
		admin.GET("/tickets/:id", h.SupportTicketDetails)
		admin.PATCH("/tickets/:id/status", h.SupportTicketStatus)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
