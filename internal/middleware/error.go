package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// ErrorHandler logs errors attached to the context and reports them to
// Sentry. Handlers render their own responses; a body is only written here
// when nothing was written yet.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		h := hub(c)
		for _, e := range c.Errors {
			log.Ctx(c.Request.Context()).Error().
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Interface("meta", e.Meta).
				Msg("Request error")

			h.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("http.method", c.Request.Method)
				scope.SetTag("http.route", c.FullPath())
				scope.SetExtra(ContextRequestID, c.GetString(ContextRequestID))
				h.CaptureException(e.Err)
			})
		}

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, httputil.Error{Error: "internal server error"})
		}
	}
}
