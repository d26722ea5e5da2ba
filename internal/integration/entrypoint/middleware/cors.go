package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsAllowedMethods = []string{"GET", "OPTIONS", "PATCH", "DELETE", "POST", "PUT"}
	corsAllowedHeaders = []string{
		"X-CSRF-Token",
		"X-Requested-With",
		"Accept",
		"Accept-Version",
		"Content-Length",
		"Content-MD5",
		"Content-Type",
		"Date",
		"X-Api-Version",
		"Authorization",
	}
)

// CORS sets the cross-origin headers on every response and answers
// preflight requests with an empty 200.
func CORS(allowOrigin string) gin.HandlerFunc {
	methods := strings.Join(corsAllowedMethods, ",")
	headers := strings.Join(corsAllowedHeaders, ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
