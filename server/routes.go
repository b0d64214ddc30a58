package server

func (s *Server) initRoutes() {
	// Integration API (account-scoped)
	s.RegisterRouteHandler("GET "+RouteIntegrationAuth, ChainMiddleware(s.AuthHandler(), s.APIMiddleware(s.RequireAccount)...))
	s.RegisterRouteHandler("GET "+RouteIntegrationOrders, ChainMiddleware(s.OrdersHandler(), s.APIMiddleware(s.RequireAccount)...))
	s.RegisterRouteHandler("DELETE "+RouteIntegration, ChainMiddleware(s.DisconnectHandler(), s.APIMiddleware(s.RequireAccount)...))

	// OAuth redirect from the marketplace. Registered for POST too, in case
	// the provider ever switches to form_post response mode.
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
}
