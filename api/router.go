package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	wtransfer "github.com/gr2020155-code/W-Mars-Transfer-WStructure"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(h *Handler, conf wtransfer.ServerConfig, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	corsConfig := cors.DefaultConfig()
	if len(conf.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = conf.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// Health check and metrics are not rate limited.
	router.GET("/health", h.HealthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/v1")
	if conf.RPS > 0 {
		burst := conf.Burst
		if burst < 1 {
			burst = 1
		}
		v1.Use(RateLimit(NewIPRateLimiter(rate.Limit(conf.RPS), burst)))
	}
	v1.GET("/hohmann", h.GetHohmann)
	v1.GET("/hohmann/position", h.GetHohmannPosition)
	v1.GET("/wstructure", h.GetWStructure)
	v1.GET("/wstructure/stream", h.StreamWStructure)
	v1.GET("/compare", h.GetComparison)

	return router
}

// requestLogger logs each request in logfmt.
func requestLogger(logger kitlog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log("level", "info", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency", time.Since(start), "client", c.ClientIP())
	}
}
