package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/atendhub/mercadolivre-integration/accounts"
)

type contextKey string

const requestContextKey contextKey = "requestContext"

// RequestContext carries the authenticated account through a single request.
// It replaces any notion of an ambient "current account": handlers only see
// what this struct holds.
type RequestContext struct {
	Account *accounts.Account
}

func RequestContextFrom(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok
}

// RequireAccount resolves the {accountID} path value into a RequestContext.
// Authentication itself is the hosting platform's concern (it fronts this
// service); here an unknown or malformed account id is a plain 404.
func (s *Server) RequireAccount(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PathValue("accountID"), 10, 64)
		if err != nil || id == 0 {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}

		account, err := s.accountRepo.GetByID(uint(id))
		if err != nil {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}

		ctx := context.WithValue(r.Context(), requestContextKey, &RequestContext{Account: account})
		next(w, r.WithContext(ctx))
	}
}
