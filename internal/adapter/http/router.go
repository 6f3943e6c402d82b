package http

import (
	"log/slog"

	"github.com/brianragasi/Highland-sub003/internal/adapter/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *PosHandler, lh *LoginHandler, authz *middleware.Authz, l *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/login", lh.Login)

	v1 := r.Group("/v1")
	{
		v1.GET("/products", authz.Require("pos.read"), h.ListProducts)

		v1.GET("/carts/:terminal", authz.Require("pos.read"), h.GetCart)
		v1.DELETE("/carts/:terminal", authz.Require("pos.sell"), h.ClearCart)
		v1.POST("/carts/:terminal/items", authz.Require("pos.sell"), h.AddItem)
		v1.PUT("/carts/:terminal/items/:productId", authz.Require("pos.sell"), h.SetQuantity)
		v1.DELETE("/carts/:terminal/items/:productId", authz.Require("pos.sell"), h.RemoveItem)
		v1.PUT("/carts/:terminal/payment", authz.Require("pos.sell"), h.SetPayment)
		v1.POST("/carts/:terminal/checkout", authz.Require("pos.sell"), h.Checkout)

		v1.GET("/sales/:id/receipt", authz.Require("pos.read"), h.GetReceipt)
	}

	return r
}
