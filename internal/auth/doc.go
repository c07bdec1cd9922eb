// Package auth provides authentication and authorization for the API.
//
// Callers authenticate with a Bearer API token; requests without a valid
// token proceed anonymously and each handler decides what anonymous callers
// may do. The ownership rule for books is a plain predicate, CanAccessBook,
// with no coupling to the HTTP layer.
//
// # Usage
//
// Install the middleware on the router:
//
//	middleware := auth.NewMiddleware(userRepo)
//	router.Use(middleware.Handler())
//
// Extract the caller in handlers:
//
//	user := auth.GetUser(c) // nil for anonymous requests
package auth
