// cmd/api/routes.go
package main

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the middleware chain. Background work started by the middleware stops
// when ctx is done.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → enableCORS → rateLimit → router
//
// Current endpoints:
//
//	GET    /healthcheck   – service status
//	GET    /movies        – list movies, optionally ?genre=
//	POST   /movies        – create a new movie
//	GET    /movies/:id    – retrieve a single movie by ID
//	PATCH  /movies/:id    – partially update an existing movie
//	DELETE /movies/:id    – delete a movie by ID
func (app *applicationDependencies) routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)

	// Movie CRUD routes
	router.HandlerFunc(http.MethodGet, "/movies", app.listMoviesHandler)
	router.HandlerFunc(http.MethodPost, "/movies", app.createMovieHandler)
	router.HandlerFunc(http.MethodGet, "/movies/:id", app.showMovieHandler)
	router.HandlerFunc(http.MethodPatch, "/movies/:id", app.updateMovieHandler)
	router.HandlerFunc(http.MethodDelete, "/movies/:id", app.deleteMovieHandler)

	// The origin check runs before rate limiting so rejected origins never
	// consume tokens.
	return app.recoverPanic(app.enableCORS(app.rateLimit(ctx, router)))
}
