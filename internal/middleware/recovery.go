package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// Recovery handles panics and logs them appropriately
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Ctx(c.Request.Context()).Error().
					Interface("error", err).
					Str("stack", string(debug.Stack())).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Msg("Request panic recovered")

				hub(c).RecoverWithContext(c.Request.Context(), err)

				c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.Error{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}

func hub(c *gin.Context) *sentry.Hub {
	if h := sentry.GetHubFromContext(c.Request.Context()); h != nil {
		return h
	}
	return sentry.CurrentHub()
}
