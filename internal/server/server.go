package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/metrics"
	"ChartSentinel/internal/notifier"
)

// New builds the HTTP engine: the Telegram webhook on POST /<botToken>, a
// liveness page on GET / and Prometheus metrics on GET /metrics.
func New(botToken string, handle notifier.UpdateHandler, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(RecoveryMiddleware, ZerologMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bot is running!")
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.POST("/:token", webhook(botToken, handle))
	return r
}

func webhook(botToken string, handle notifier.UpdateHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.Param("token")), []byte(botToken)) != 1 {
			c.Status(http.StatusNotFound)
			return
		}
		var upd notifier.Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			log.Warn().Err(err).Msg("decode webhook update")
			c.String(http.StatusBadRequest, "bad update")
			return
		}
		handle(c.Request.Context(), upd)
		c.String(http.StatusOK, "ok")
	}
}
