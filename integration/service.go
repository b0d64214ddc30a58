// Package integration orchestrates the Mercado Livre OAuth lifecycle: it
// issues authorization URLs, completes the callback exchange, keeps the
// per-account hook's tokens fresh, and proxies the seller's orders.
package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atendhub/mercadolivre-integration/accounts"
	"github.com/atendhub/mercadolivre-integration/hooks"
	"github.com/atendhub/mercadolivre-integration/internal/config"
	"github.com/atendhub/mercadolivre-integration/mercadolivre"
	"github.com/atendhub/mercadolivre-integration/statetoken"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type Repos struct {
	Hooks    hooks.Repo
	Accounts accounts.Repo
}

type Service struct {
	repos  Repos
	ml     *mercadolivre.Client
	states *statetoken.Issuer
	config config.SecurityConfig
}

func NewService(repos Repos, ml *mercadolivre.Client, states *statetoken.Issuer, cfg config.SecurityConfig) *Service {
	return &Service{
		repos:  repos,
		ml:     ml,
		states: states,
		config: cfg,
	}
}

// AuthorizationURL builds the marketplace authorization URL for the account.
// No external calls: the only side effect is issuing the state token.
func (s *Service) AuthorizationURL(accountID uint) (string, error) {
	state, err := s.states.Issue(accountID)
	if err != nil {
		return "", fmt.Errorf("failed to issue state token: %w", err)
	}
	return s.ml.AuthCodeURL(state), nil
}

// CompleteAuthorization handles the OAuth redirect: it validates the state,
// exchanges the code, resolves the seller's identity, and replaces the
// account's hook. The returned account id is valid whenever the state
// verified, including on later failures, so the caller can still redirect
// to the account's settings page.
func (s *Service) CompleteAuthorization(ctx context.Context, state, code string) (uint, error) {
	accountID, err := s.states.Verify(state)
	if err != nil {
		return 0, err
	}
	if _, err := s.repos.Accounts.GetByID(accountID); err != nil {
		return 0, InvalidStateErr
	}

	token, err := s.ml.ExchangeCode(ctx, code)
	if err != nil {
		logUpstreamError("mercado livre code exchange failed", err)
		return accountID, fmt.Errorf("%w: code exchange: %v", UpstreamAuthFailureErr, err)
	}

	seller, err := s.ml.Me(ctx, token.AccessToken)
	if err != nil {
		logUpstreamError("mercado livre identity lookup failed", err)
		return accountID, fmt.Errorf("%w: identity lookup: %v", UpstreamAuthFailureErr, err)
	}

	hook := &hooks.Hook{
		AccountID:      accountID,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: NowTimeFunc().Unix() + token.ExpiresIn,
		Scope:          token.Scope,
		ReferenceID:    seller.ID.String(),
		Status:         hooks.StatusEnabled,
	}
	if err := s.repos.Hooks.Replace(hook); err != nil {
		return accountID, fmt.Errorf("failed to store hook: %w", err)
	}

	log.Info().Uint("account_id", accountID).Str("seller_id", hook.ReferenceID).
		Msg("mercado livre integration connected")
	return accountID, nil
}

// RefreshOutcome names what happened to the hook's token before the orders
// fetch. Skipped means a refresh was due but failed, and the stale token
// was used anyway.
type RefreshOutcome struct {
	Refreshed bool
	Skipped   bool
	Err       error
}

type OrdersResult struct {
	Orders  []mercadolivre.Order
	Refresh RefreshOutcome
}

// Orders fetches the account's recent marketplace orders, refreshing the
// access token first when it is within the expiry skew. Each order gains an
// admin_url deep link; nothing else is altered. An upstream non-success on
// the search itself degrades to an empty list, not an error.
func (s *Service) Orders(ctx context.Context, accountID uint) (*OrdersResult, error) {
	hook, err := s.repos.Hooks.GetByAccount(accountID)
	if err != nil {
		if errors.Is(err, hooks.ErrNotFound) {
			return nil, IntegrationNotConfiguredErr
		}
		return nil, err
	}

	outcome := s.ensureFreshToken(ctx, hook)

	orders, err := s.ml.SearchOrders(ctx, hook.AccessToken, hook.ReferenceID)
	if err != nil {
		var apiErr *mercadolivre.APIError
		if errors.As(err, &apiErr) {
			log.Error().Int("status", apiErr.StatusCode).Str("body", apiErr.Body).
				Uint("account_id", accountID).Msg("mercado livre orders search failed")
			return &OrdersResult{Orders: []mercadolivre.Order{}, Refresh: outcome}, nil
		}
		return nil, err
	}

	for _, order := range orders {
		order["admin_url"] = mercadolivre.AdminOrderURL(order["id"])
	}
	return &OrdersResult{Orders: orders, Refresh: outcome}, nil
}

// Disconnect destroys the account's hook.
func (s *Service) Disconnect(accountID uint) error {
	if err := s.repos.Hooks.Delete(accountID); err != nil {
		if errors.Is(err, hooks.ErrNotFound) {
			return IntegrationNotConfiguredErr
		}
		return err
	}
	log.Info().Uint("account_id", accountID).Msg("mercado livre integration disconnected")
	return nil
}

// ensureFreshToken refreshes the hook's access token when it expires within
// the configured skew. A failed refresh is logged and skipped, never fatal:
// the stale token is left in place and the subsequent API call surfaces the
// real failure.
func (s *Service) ensureFreshToken(ctx context.Context, hook *hooks.Hook) RefreshOutcome {
	if hook.TokenExpiresAt > NowTimeFunc().Add(s.config.GetTokenRefreshSkew()).Unix() {
		return RefreshOutcome{}
	}

	log.Info().Uint("account_id", hook.AccountID).Msg("refreshing mercado livre token")

	token, err := s.ml.Refresh(ctx, hook.RefreshToken)
	if err != nil {
		logUpstreamError("failed to refresh mercado livre token", err)
		return RefreshOutcome{Skipped: true, Err: err}
	}

	hook.AccessToken = token.AccessToken
	hook.RefreshToken = token.RefreshToken
	hook.TokenExpiresAt = NowTimeFunc().Unix() + token.ExpiresIn
	if err := s.repos.Hooks.UpdateTokens(hook.AccountID, hook.AccessToken, hook.RefreshToken, hook.TokenExpiresAt); err != nil {
		// The in-memory hook still carries the fresh token, so this request
		// proceeds; the next one will refresh again.
		log.Err(err).Uint("account_id", hook.AccountID).Msg("failed to persist refreshed token")
	}
	return RefreshOutcome{Refreshed: true}
}

func logUpstreamError(msg string, err error) {
	var apiErr *mercadolivre.APIError
	if errors.As(err, &apiErr) {
		log.Error().Int("status", apiErr.StatusCode).Str("body", apiErr.Body).Msg(msg)
		return
	}
	log.Err(err).Msg(msg)
}
