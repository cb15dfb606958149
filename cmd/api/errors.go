// cmd/api/errors.go
// This file contains all error-response helpers for the application.
package main

import (
	"log/slog"
	"net/http"

	"github.com/aoideee/movies-api/internal/validator"
)

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// errorResponse sends a JSON error envelope with the given status code and message.
// It is the low-level building block used by most of the helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	app.sendEnvelope(w, r, status, envelope{"error": message})
}

// messageResponse sends {"message": message} with the given status code.
func (app *applicationDependencies) messageResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.sendEnvelope(w, r, status, envelope{"message": message})
}

func (app *applicationDependencies) sendEnvelope(w http.ResponseWriter, r *http.Request, status int, data envelope) {
	err := app.writeJSON(w, status, data, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs a 500-level error and sends a generic message to the client.
// Internal error details are never exposed to the client.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// notFoundResponse sends a 404 Not Found for unknown routes.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.messageResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

// movieNotFoundResponse sends a 404 Not Found for an unknown movie id.
func (app *applicationDependencies) movieNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.messageResponse(w, r, http.StatusNotFound, "Movie not found")
}

// methodNotAllowedResponse sends a 405 Method Not Allowed error.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// failedValidationResponse sends a 400 Bad Request response containing
// the field-level violations collected by a Validator.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, violations []validator.Violation) {
	app.errorResponse(w, r, http.StatusBadRequest, violations)
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

// originDeniedResponse rejects a cross-origin request with a bare 403. The
// body is left empty so browsers surface it as a CORS failure.
func (app *applicationDependencies) originDeniedResponse(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
}
