// Package mercadolivre is a thin client for the Mercado Livre OAuth token
// endpoint and the two REST resources this integration touches (/users/me
// and /orders/search). It does not retry: a single failed attempt is
// reported to the caller as an *APIError.
package mercadolivre

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/atendhub/mercadolivre-integration/internal/config"
)

// CallbackPath is appended to FRONTEND_URL to form the OAuth redirect URI.
// It must match the redirect URI registered with Mercado Livre exactly,
// both when requesting authorization and when exchanging the code.
const CallbackPath = "/mercado_livre/callback"

type Client struct {
	oauth      *oauth2.Config
	apiBaseURL string
	limit      int
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.GetMLClientID(),
			ClientSecret: cfg.GetMLClientSecret(),
			RedirectURL:  cfg.GetFrontendURL() + CallbackPath,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GetMLAuthBaseURL() + "/authorization",
				TokenURL: cfg.GetMLTokenURL(),
				// Mercado Livre wants client credentials in the POST body,
				// not in a basic auth header.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBaseURL: cfg.GetMLAPIBaseURL(),
		limit:      cfg.GetOrdersSearchLimit(),
		httpClient: &http.Client{Timeout: cfg.GetUpstreamTimeout()},
	}
}

// AuthCodeURL builds the browser-facing authorization URL carrying the
// state token: response_type=code, client_id, redirect_uri, state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode swaps an authorization code for tokens
// (grant_type=authorization_code).
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	tok, err := c.oauth.Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return nil, asAPIError(err)
	}
	return tokenFromOAuth2(tok), nil
}

// Refresh mints a new access token from a refresh token
// (grant_type=refresh_token). Mercado Livre rotates the refresh token on
// every call, so the returned Token carries a new one.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, asAPIError(err)
	}
	return tokenFromOAuth2(tok), nil
}

// Me returns the identity of the seller the access token belongs to.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, accessToken, c.apiBaseURL+"/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchOrders fetches the seller's most recent orders, newest first.
// Orders are decoded as opaque JSON objects so upstream fields pass through
// to the caller untouched.
func (c *Client) SearchOrders(ctx context.Context, accessToken, sellerID string) ([]Order, error) {
	query := url.Values{
		"seller": {sellerID},
		"sort":   {"date_desc"},
		"limit":  {strconv.Itoa(c.limit)},
	}

	var resp ordersSearchResponse
	if err := c.getJSON(ctx, accessToken, c.apiBaseURL+"/orders/search", query, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) getJSON(ctx context.Context, accessToken, rawURL string, query url.Values, out any) error {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber() // order ids don't fit float64 precision
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// oauthContext pins the oauth2 library to this client's HTTP client so the
// upstream timeout applies to token calls too.
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func asAPIError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return &APIError{
			StatusCode: retrieveErr.Response.StatusCode,
			Body:       string(retrieveErr.Body),
		}
	}
	return err
}

func tokenFromOAuth2(tok *oauth2.Token) *Token {
	token := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if expiresIn, ok := tok.Extra("expires_in").(float64); ok {
		token.ExpiresIn = int64(expiresIn)
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		token.Scope = scope
	}
	return token
}
