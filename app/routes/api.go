// Package routes wires the HTTP surface: the GraphQL endpoint, the
// upload endpoint, health, and metrics, behind the full middleware
// chain.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/app/graphql"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/storage"
)

// Deps is everything the router needs, built once at boot.
type Deps struct {
	Schema      gql.Schema
	Tokens      *auth.Tokens
	Users       middleware.UserFinder
	Uploads     storage.Store
	FrontendURL string
}

// New builds the router. The middleware order matters: the request ID
// must exist before the logger tags with it, and identity must resolve
// before hydration.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.StorefrontCORS(deps.FrontendURL)))
	r.Use(middleware.Identity(deps.Tokens))
	r.Use(middleware.Hydrate(deps.Users))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", metrics.Handler())

	r.Post("/graphql", graphql.Handler(deps.Schema))

	upload := controllers.NewUploadController(deps.Uploads)
	r.Post("/api/upload", upload.Upload)

	return r
}
