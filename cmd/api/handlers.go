// cmd/api/handlers.go
// This file contains all HTTP request handlers for the movies resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and the movie store.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/movies-api/internal/data"
	"github.com/aoideee/movies-api/internal/validator"
)

// healthcheckHandler handles GET /healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]any{
			"environment": app.config.Env,
			"version":     appVersion,
			"movies":      app.models.Movies.Len(),
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listMoviesHandler handles GET /movies.
// An optional ?genre= query parameter restricts the list to movies tagged
// with that genre, ignoring case.
func (app *applicationDependencies) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	genre := app.readString(r.URL.Query(), "genre", "")

	movies := app.models.Movies.GetAll(genre)

	err := app.writeJSON(w, http.StatusOK, movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieHandler handles GET /movies/:id.
func (app *applicationDependencies) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r)

	movie, err := app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.movieNotFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createMovieHandler handles POST /movies.
// The body must describe a complete movie; the server assigns the id and
// responds 201 Created with the stored record.
func (app *applicationDependencies) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	input, ok := app.readMovieInput(w, r)
	if !ok {
		return
	}

	fields, err := data.ValidateMovie(input)
	if err != nil {
		app.validationErrorResponse(w, r, err)
		return
	}

	movie, err := app.models.Movies.Insert(fields)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/movies/"+movie.ID)

	err = app.writeJSON(w, http.StatusCreated, movie, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler handles PATCH /movies/:id.
// Only the fields present in the body are validated and applied. The body is
// validated before the id is looked up, so an invalid body on an unknown id
// is a 400.
func (app *applicationDependencies) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r)

	input, ok := app.readMovieInput(w, r)
	if !ok {
		return
	}

	fields, err := data.ValidatePartialMovie(input)
	if err != nil {
		app.validationErrorResponse(w, r, err)
		return
	}

	movie, err := app.models.Movies.Update(id, fields)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.movieNotFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteMovieHandler handles DELETE /movies/:id.
func (app *applicationDependencies) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r)

	err := app.models.Movies.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.movieNotFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.messageResponse(w, r, http.StatusOK, "Movie deleted")
}

// readMovieInput decodes the request body. A body that cannot be decoded is
// reported as a validation failure on the whole document; ok is false when a
// response has already been written.
func (app *applicationDependencies) readMovieInput(w http.ResponseWriter, r *http.Request) (any, bool) {
	input, err := app.readJSON(w, r)
	if err != nil {
		app.failedValidationResponse(w, r, []validator.Violation{{Message: err.Error()}})
		return nil, false
	}
	return input, true
}

// validationErrorResponse turns the error from a validation function into
// a 400 response.
func (app *applicationDependencies) validationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validator.ValidationError
	if errors.As(err, &ve) {
		app.failedValidationResponse(w, r, ve.Violations)
		return
	}
	app.serverErrorResponse(w, r, err)
}
