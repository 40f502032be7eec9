package api

import (
	"net/http"

	"github.com/intakeworks/storygate/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Messages.Routes(),
		domain.Credentials.Routes(),
	)
}
