package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	jsonrnc "github.com/reoring/jsonrnc"
	"github.com/reoring/jsonrnc/middleware"
)

// ValidateJSON validates the incoming JSON against g with opt (or
// middleware.DefaultReadOpt when zero), stores the decoded body in the
// request context, and on failure aborts with 400 and the issues.
func ValidateJSON(g *jsonrnc.Grammar, opt jsonrnc.ReadOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := middleware.Check(c.Request.Context(), g, c.Request, opt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithBody(c.Request.Context(), body))
		c.Next()
	}
}

// GetBody fetches the validated body from gin.Context.
func GetBody(c *gin.Context) (any, bool) {
	return middleware.BodyFromContext(c.Request.Context())
}
