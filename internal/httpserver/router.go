package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"taskcadence/internal/config"
	"taskcadence/internal/service"
	"taskcadence/internal/util"
)

type Router struct {
	Engine *gin.Engine
}

// NewRouter builds the runner's ops/admin surface: health and metrics are
// public, evaluation endpoints require an operator token.
func NewRouter(logger *zap.Logger, db *pgxpool.Pool, runner *service.Runner, cfg *config.Config) *Router {
	r := gin.Default()
	r.Use(TraceMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/login", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if req.Username != cfg.Operator.Username || !util.CheckPassword(req.Password, cfg.Operator.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := util.GenerateJWT(req.Username, cfg.JWT.Secret)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	auth := r.Group("/")
	auth.Use(AuthMiddleware(cfg.JWT.Secret))
	{
		auth.POST("/runs/trigger", func(c *gin.Context) {
			res, err := runner.RunOnce(c.Request.Context(), time.Now())
			if err != nil {
				logger.Error("Triggered run failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"evaluated":             res.Evaluated,
				"due":                   len(res.Due),
				"dropped_no_recipients": res.DroppedNoRecipients,
			})
		})

		auth.GET("/runs/preview", func(c *gin.Context) {
			res, err := runner.Preview(c.Request.Context(), time.Now())
			if err != nil {
				logger.Error("Preview failed", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"evaluated":             res.Evaluated,
				"dropped_no_recipients": res.DroppedNoRecipients,
				"due":                   service.Summarize(res.Due),
			})
		})
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
