package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/atendhub/mercadolivre-integration/integration"
)

// CallbackHandler receives the OAuth redirect from Mercado Livre. Whatever
// happens, the browser ends up back on the frontend: success lands on the
// account's integration settings page, failure on the same page with
// ?error=true, and an unverifiable state on the frontend root since the
// account is unknown. A raw error page is never rendered.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.FormValue works for both query params and POST form data
		state := r.FormValue("state")
		code := r.FormValue("code")

		accountID, err := s.integration.CompleteAuthorization(r.Context(), state, code)
		if err != nil {
			if errors.Is(err, integration.InvalidStateErr) || accountID == 0 {
				redirectFound(w, r, s.config.GetFrontendURL()+"?error=true")
				return
			}
			redirectFound(w, r, s.settingsURL(accountID)+"?error=true")
			return
		}

		redirectFound(w, r, s.settingsURL(accountID))
	}
}

func (s *Server) settingsURL(accountID uint) string {
	return fmt.Sprintf("%s/app/accounts/%d/settings/integrations/mercado_livre",
		s.config.GetFrontendURL(), accountID)
}

func redirectFound(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusFound)
}
