package handler

import (
	"net/http"
)

// Routes reachable without a token
var PublicRoutes = []string{
	"POST /api/auth/register",
	"POST /api/auth/login",
	"GET /health",
	"GET /metrics",
}

// Routes behind the per-IP auth rate limit
var RateLimitedRoutes = []string{
	"POST /api/auth/register",
	"POST /api/auth/login",
}

// Router groups the handlers served by the API.
type Router struct {
	Auth      *AuthHandler
	User      *UserHandler
	CaseStudy *CaseStudyHandler
	Database  *DatabaseHandler
	// Metrics is optional
	Metrics http.Handler
}

// Register adds every route to mux.
func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", Health)
	if rt.Metrics != nil {
		mux.Handle("GET /metrics", rt.Metrics)
	}

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", rt.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", rt.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", rt.Auth.Logout)

	// User routes
	mux.HandleFunc("GET /api/user/profile", rt.User.GetProfile)
	mux.HandleFunc("PUT /api/user/update", rt.User.UpdateProfile)

	// Case study routes
	mux.HandleFunc("GET /api/case-studies", rt.CaseStudy.ListCaseStudies)
	mux.HandleFunc("POST /api/case-studies", rt.CaseStudy.CreateCaseStudy)
	mux.HandleFunc("GET /api/case-studies/{id}", rt.CaseStudy.GetCaseStudy)
	mux.HandleFunc("GET /api/case-studies/{id}/render", rt.CaseStudy.RenderCaseStudy)
	mux.HandleFunc("PUT /api/case-studies/{id}", rt.CaseStudy.UpdateCaseStudy)
	mux.HandleFunc("DELETE /api/case-studies/{id}", rt.CaseStudy.DeleteCaseStudy)

	// Database viewer routes
	mux.HandleFunc("GET /api/database/users", rt.Database.ListUsers)
	mux.HandleFunc("GET /api/database/users/{id}", rt.Database.GetUser)
	mux.HandleFunc("GET /api/database/case-studies", rt.Database.ListCaseStudies)
	mux.HandleFunc("GET /api/database/case-studies/{id}", rt.Database.GetCaseStudy)
	mux.HandleFunc("GET /api/database/overview", rt.Database.Overview)
}
