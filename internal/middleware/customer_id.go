package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const HeaderCustomerID = "X-Customer-Id"

const contextKeyCustomerID = "customer_id"

// RequireCustomerID enforces an explicit customer identity on every route.
// Session mechanics live outside this service; the surrounding layer passes
// the resolved customer id in a header.
func RequireCustomerID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		customerID := strings.TrimSpace(c.Request().Header.Get(HeaderCustomerID))
		if customerID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "missing required header: "+HeaderCustomerID)
		}

		c.Set(contextKeyCustomerID, customerID)
		return next(c)
	}
}

// CustomerID returns the identity stored by RequireCustomerID.
func CustomerID(c echo.Context) string {
	customerID, _ := c.Get(contextKeyCustomerID).(string)
	return customerID
}
