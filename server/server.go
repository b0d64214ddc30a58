package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/atendhub/mercadolivre-integration/accounts"
	"github.com/atendhub/mercadolivre-integration/contacts"
	"github.com/atendhub/mercadolivre-integration/integration"
	"github.com/atendhub/mercadolivre-integration/internal/config"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config

	integration *integration.Service
	accountRepo accounts.Repo
	contactRepo contacts.Repo
}

func New(cfg config.Config, svc *integration.Service, accountRepo accounts.Repo, contactRepo contacts.Repo) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		integration: svc,
		accountRepo: accountRepo,
		contactRepo: contactRepo,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
