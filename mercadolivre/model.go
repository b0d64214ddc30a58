package mercadolivre

import (
	"encoding/json"
	"fmt"
)

// Token is the result of a token endpoint call. ExpiresIn is seconds from
// now; callers persist an absolute expiry.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Scope        string
}

// User is the subset of /users/me this integration reads.
type User struct {
	ID       json.Number `json:"id"`
	Nickname string      `json:"nickname"`
}

// Order is an order object exactly as the marketplace returned it. The
// integration only ever adds the admin_url key.
type Order map[string]any

type ordersSearchResponse struct {
	Results []Order `json:"results"`
}

// AdminOrderURL is the seller-dashboard deep link for an order.
func AdminOrderURL(orderID any) string {
	return fmt.Sprintf("https://www.mercadolibre.com.br/ventas/%v/detalle", orderID)
}

// APIError reports a non-2xx upstream response: the status and raw body,
// for the caller to log and react to.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercado livre responded %d: %s", e.StatusCode, e.Body)
}
