package http

import (
	"net/http"
	"strings"
	"time"

	"gradglow/internal/http/handlers"
	"gradglow/internal/http/metrics"
	httpmw "gradglow/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	ListingHandler     *handlers.ListingHandler
	ApplicationHandler *handlers.ApplicationHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.Metrics.Handler().ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/signup":
			r.deps.AuthHandler.SignUp(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/signin":
			r.deps.AuthHandler.SignIn(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/signout":
			r.deps.AuthHandler.SignOut(w, req)
			return
		case req.Method == http.MethodGet && path == "/auth/me":
			r.deps.AuthHandler.Me(w, req)
			return
		case req.Method == http.MethodGet && path == "/internships":
			r.deps.ListingHandler.List(w, req)
			return
		}

		if strings.HasPrefix(path, "/internships") || strings.HasPrefix(path, "/applications") || strings.HasPrefix(path, "/recruiter") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/internships/"):
		r.deps.ListingHandler.Get(w, req)
		return
	case req.Method == http.MethodPost && path == "/internships":
		httpmw.RequireRecruiter(http.HandlerFunc(r.deps.ListingHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/internships/"):
		httpmw.RequireRecruiter(http.HandlerFunc(r.deps.ListingHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/recruiter/internships":
		httpmw.RequireRecruiter(http.HandlerFunc(r.deps.ListingHandler.Mine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		httpmw.RequireStudent(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRecruiter(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}
