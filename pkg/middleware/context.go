package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/appctx"
)

// Context stamps each request with a request id and the deployment's trading
// partner id.
func Context(partnerID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = appctx.SetRequestID(ctx, requestID)
			ctx = appctx.SetPartnerID(ctx, partnerID)

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
