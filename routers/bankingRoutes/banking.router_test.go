package bankingRoutes

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnauthenticatedRequestsAreRejectedBeforeValidation(t *testing.T) {
	app := fiber.New()
	SetupBankingRoutes(app)

	// Empty bodies would fail validation with 422; a missing token must be
	// reported as 401 before the validators see the request.
	routes := []string{
		"/banking/beneficiaries",
		"/banking/transfer/initiate",
		"/banking/transfer/confirm",
		"/banking/bills/pay",
	}
	for _, route := range routes {
		req := httptest.NewRequest(fiber.MethodPost, route, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, route)
	}
}
