package middleware

import (
	"net/http"
	"strings"

	"anno-go/internal/config"

	"github.com/gin-gonic/gin"
)

// CORS 跨域中间件
// 标注前端通常跑在另一个本地端口上，按配置放行来源；
// 预检请求在这里短路返回，不进业务路由
func CORS(cfg *config.Config) gin.HandlerFunc {
	allowMethods := strings.Join(cfg.CORS.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.CORS.AllowHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && originAllowed(cfg.CORS.Origins, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			if cfg.CORS.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if allowMethods != "" {
				c.Header("Access-Control-Allow-Methods", allowMethods)
			}
			if allowHeaders != "" {
				c.Header("Access-Control-Allow-Headers", allowHeaders)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// originAllowed 来源是否在允许列表中，"*"放行所有来源
func originAllowed(allowed []string, origin string) bool {
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
