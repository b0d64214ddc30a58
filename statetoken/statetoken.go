package statetoken

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atendhub/mercadolivre-integration/internal/config"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var ErrInvalidState = errors.New("invalid state parameter")

// Issuer mints and verifies the `state` parameter carried through the OAuth
// redirect. The token binds the authorization attempt to the initiating
// account and expires after a short window. There is no single-use
// tracking: a state can be replayed until its expiry.
type Issuer struct {
	secret []byte
	expiry time.Duration
}

func NewIssuer(cfg config.SecurityConfig) *Issuer {
	return &Issuer{
		secret: cfg.GetStateTokenSecret(),
		expiry: cfg.GetStateTokenExpiry(),
	}
}

// Issue creates a signed state token for the given account.
func (i *Issuer) Issue(accountID uint) (string, error) {
	claims := jwtlib.MapClaims{
		"sub": strconv.FormatUint(uint64(accountID), 10),
		"iat": NowTimeFunc().Unix(),
		"exp": NowTimeFunc().Add(i.expiry).Unix(),
		"jti": uuid.New().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state token: %w", err)
	}
	return signed, nil
}

// Verify validates a state token and returns the account id it was issued
// for. Any parse, signature, or expiry failure collapses to ErrInvalidState;
// the callback handler has no use for the distinction.
func (i *Issuer) Verify(state string) (uint, error) {
	parsed, err := jwtlib.Parse(state,
		func(t *jwtlib.Token) (any, error) { return i.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidState
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return 0, ErrInvalidState
	}

	accountID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || accountID == 0 {
		return 0, ErrInvalidState
	}
	return uint(accountID), nil
}
