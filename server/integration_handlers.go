package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atendhub/mercadolivre-integration/integration"
)

const contentTypeJSON = "application/json; charset=utf-8"

// AuthHandler starts the OAuth flow: it returns the marketplace
// authorization URL for the frontend to open.
func (s *Server) AuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := RequestContextFrom(r.Context())
		if !ok {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}

		redirectURL, err := s.integration.AuthorizationURL(rc.Account.ID)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"redirect_url": redirectURL})
	}
}

// OrdersHandler proxies the seller's recent orders from the marketplace.
func (s *Server) OrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := RequestContextFrom(r.Context())
		if !ok {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}

		// The contact must exist, although the upstream search is not
		// filtered by it. The filter was never finished; the guard is kept
		// so the API contract doesn't loosen underneath the frontend.
		if !s.contactExists(rc.Account.ID, r.URL.Query().Get("contact_id")) {
			writeError(w, http.StatusUnprocessableEntity, "Contact not found")
			return
		}

		result, err := s.integration.Orders(r.Context(), rc.Account.ID)
		if err != nil {
			if errors.Is(err, integration.IntegrationNotConfiguredErr) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"orders": result.Orders})
	}
}

// DisconnectHandler destroys the account's hook.
func (s *Server) DisconnectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := RequestContextFrom(r.Context())
		if !ok {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}

		if err := s.integration.Disconnect(rc.Account.ID); err != nil {
			if errors.Is(err, integration.IntegrationNotConfiguredErr) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) contactExists(accountID uint, rawContactID string) bool {
	contactID, err := strconv.ParseUint(rawContactID, 10, 64)
	if err != nil || contactID == 0 {
		return false
	}
	_, err = s.contactRepo.GetByID(accountID, uint(contactID))
	return err == nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
