package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/appctx"
)

func TestContextStampsPartnerID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotPartner, gotRequestID string
	handler := Context("SHAW")(func(c echo.Context) error {
		ctx := c.Request().Context()
		gotPartner = appctx.GetPartnerID(ctx)
		gotRequestID = appctx.GetRequestID(ctx)
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "SHAW", gotPartner)
	assert.NotEmpty(t, gotRequestID)
}

func TestContextKeepsInboundRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRequestID string
	handler := Context("SHAW")(func(c echo.Context) error {
		gotRequestID = appctx.GetRequestID(c.Request().Context())
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "req-123", gotRequestID)
}
