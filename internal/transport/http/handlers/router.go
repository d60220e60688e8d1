package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vedran77/jobly/internal/authz"
	"github.com/vedran77/jobly/internal/service"
	"github.com/vedran77/jobly/internal/transport/http/middleware"
)

// Deps are the collaborators the router wires into handlers. Events is
// optional; without it the websocket route is not registered.
type Deps struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Jobs     *service.JobService
	Listings *service.ListingService
	Verifier middleware.TokenVerifier
	Events   http.Handler

	CORSOrigins []string
	Logger      *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := NewAuthHandler(d.Auth, logger)
	userHandler := NewUserHandler(d.Users, logger)
	jobHandler := NewJobHandler(d.Jobs, logger)
	listingHandler := NewListingHandler(d.Listings, logger)

	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Authorize(authz.AdminOnly, "")(h)
	}
	self := func(h http.HandlerFunc) http.Handler {
		return middleware.Authorize(authz.SelfOrAdmin, "username")(h)
	}

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /auth/token", authHandler.Token)
	mux.HandleFunc("POST /auth/register", authHandler.Register)

	// Users
	mux.Handle("POST /users", admin(userHandler.Create))
	mux.Handle("GET /users", admin(userHandler.List))
	mux.Handle("GET /users/{username}", self(userHandler.Get))
	mux.Handle("PATCH /users/{username}", self(userHandler.Update))
	mux.Handle("DELETE /users/{username}", self(userHandler.Delete))
	mux.Handle("POST /users/{username}/jobs/{id}", self(userHandler.Apply))
	mux.Handle("PATCH /users/{username}/jobs/{id}", self(userHandler.UpdateApplication))
	if d.Events != nil {
		mux.Handle("GET /users/{username}/events", d.Events)
	}

	// Jobs
	mux.Handle("POST /jobs", admin(jobHandler.Create))
	mux.HandleFunc("GET /jobs", jobHandler.List)
	mux.HandleFunc("GET /jobs/{id}", jobHandler.Get)
	mux.Handle("DELETE /jobs/{id}", admin(jobHandler.Delete))

	// Listings
	mux.Handle("POST /listings", admin(listingHandler.Create))
	mux.HandleFunc("GET /listings", listingHandler.List)
	mux.HandleFunc("GET /listings/search", listingHandler.Search)
	mux.HandleFunc("GET /listings/{id}", listingHandler.Get)
	mux.Handle("DELETE /listings/{id}", admin(listingHandler.Delete))

	var h http.Handler = mux
	h = middleware.Authenticate(d.Verifier)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(d.CORSOrigins)(h)
	return h
}
