package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Account-scoped integration API
	RouteIntegrationAuth   = "/api/v1/accounts/{accountID}/integrations/mercado_livre/auth"
	RouteIntegrationOrders = "/api/v1/accounts/{accountID}/integrations/mercado_livre/orders"
	RouteIntegration       = "/api/v1/accounts/{accountID}/integrations/mercado_livre"

	// OAuth redirect target, registered with Mercado Livre
	RouteCallback = "/mercado_livre/callback"
)
