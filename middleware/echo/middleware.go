package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	jsonrnc "github.com/reoring/jsonrnc"
	"github.com/reoring/jsonrnc/middleware"
)

// ValidateJSON validates the request body against g (with opt, or
// middleware.DefaultReadOpt when zero), stores the decoded body in the
// request context on success, or returns 400 with the issues.
func ValidateJSON(g *jsonrnc.Grammar, opt jsonrnc.ReadOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			body, err := middleware.Check(req.Context(), g, req, opt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			}
			c.SetRequest(req.WithContext(middleware.ContextWithBody(req.Context(), body)))
			return next(c)
		}
	}
}

// GetBody fetches the validated body from echo.Context.
func GetBody(c echo.Context) (any, bool) {
	return middleware.BodyFromContext(c.Request().Context())
}
