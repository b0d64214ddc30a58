package integration

import (
	"errors"

	"github.com/atendhub/mercadolivre-integration/statetoken"
)

var (
	// InvalidStateErr covers a malformed, tampered, or expired state token,
	// and a state pointing at an account that no longer exists.
	InvalidStateErr = statetoken.ErrInvalidState

	IntegrationNotConfiguredErr = errors.New("mercado livre integration not configured")
	UpstreamAuthFailureErr      = errors.New("mercado livre authorization failed")
)
