package main

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/movies-api/internal/data"
	"github.com/aoideee/movies-api/internal/validator"
)

type validationBody struct {
	Error []validator.Violation `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

const newMovieJSON = `{
	"title": "The Thing",
	"year": 1982,
	"director": "John Carpenter",
	"duration": 109,
	"rating": 8.2,
	"poster": "https://example.com/the-thing.jpg",
	"genre": ["Horror", "Sci-Fi"]
}`

func TestScenario(t *testing.T) {
	app := newTestApplication(t)

	// list("action") returns exactly the seeded record.
	res := app.do(t, http.MethodGet, "/movies?genre=action", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, []data.Movie{*starWars()}, decodeBody[[]data.Movie](t, res))

	// find("missing") is a 404.
	res = app.do(t, http.MethodGet, "/movies/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Movie not found", decodeBody[messageBody](t, res).Message)

	// POST without a title names the title.
	body := strings.Replace(newMovieJSON, `"title": "The Thing",`, "", 1)
	res = app.do(t, http.MethodPost, "/movies", body, nil)
	require.Equal(t, http.StatusBadRequest, res.status)
	violations := decodeBody[validationBody](t, res).Error
	require.Len(t, violations, 1)
	assert.Equal(t, "title", violations[0].Field)

	// PATCH only changes the year.
	res = app.do(t, http.MethodPatch, "/movies/a1", `{"year": 1980}`, nil)
	require.Equal(t, http.StatusOK, res.status)
	want := *starWars()
	want.Year = 1980
	assert.Equal(t, want, decodeBody[data.Movie](t, res))

	// DELETE then GET is a 404.
	res = app.do(t, http.MethodDelete, "/movies/a1", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Movie deleted", decodeBody[messageBody](t, res).Message)

	res = app.do(t, http.MethodGet, "/movies/a1", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestListMovies(t *testing.T) {
	alien := &data.Movie{ID: "b2", Title: "Alien", Year: 1979, Director: "Ridley Scott", Duration: 117, Poster: "https://example.com/alien.jpg", Genre: []string{"Horror", "Sci-Fi"}, Rating: 8.5}
	app := newTestApplication(t, starWars(), alien)

	tests := []struct {
		target string
		ids    []string
	}{
		{target: "/movies", ids: []string{"a1", "b2"}},
		{target: "/movies?genre=", ids: []string{"a1", "b2"}},
		{target: "/movies?genre=SCI-FI", ids: []string{"b2"}},
		{target: "/movies?genre=Adventure", ids: []string{"a1"}},
		{target: "/movies?genre=western", ids: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			res := app.do(t, http.MethodGet, tt.target, "", nil)
			require.Equal(t, http.StatusOK, res.status)
			assert.Equal(t, "application/json", res.header.Get("Content-Type"))

			movies := decodeBody[[]data.Movie](t, res)
			ids := []string{}
			for _, m := range movies {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestListMovies_EmptyStoreIsArray(t *testing.T) {
	app := newTestApplication(t)
	require.NoError(t, app.models.Movies.Delete("a1"))

	res := app.do(t, http.MethodGet, "/movies", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.JSONEq(t, `[]`, string(res.body))
}

func TestShowMovie(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodGet, "/movies/a1", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, *starWars(), decodeBody[data.Movie](t, res))
	assert.Empty(t, res.header.Get("X-Powered-By"))
}

func TestCreateMovie(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodPost, "/movies", newMovieJSON, nil)
	require.Equal(t, http.StatusCreated, res.status)

	created := decodeBody[data.Movie](t, res)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "a1", created.ID)
	assert.Equal(t, "The Thing", created.Title)
	assert.Equal(t, 1982, created.Year)
	assert.Equal(t, "John Carpenter", created.Director)
	assert.Equal(t, 109, created.Duration)
	assert.InDelta(t, 8.2, created.Rating, 1e-9)
	assert.Equal(t, "https://example.com/the-thing.jpg", created.Poster)
	assert.Equal(t, []string{"Horror", "Sci-Fi"}, created.Genre)
	assert.Equal(t, "/movies/"+created.ID, res.header.Get("Location"))

	res = app.do(t, http.MethodGet, "/movies/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, created, decodeBody[data.Movie](t, res))

	assert.Equal(t, 2, app.models.Movies.Len())
}

func TestCreateMovie_IgnoresClientID(t *testing.T) {
	app := newTestApplication(t)

	body := strings.Replace(newMovieJSON, "{", `{"id": "a1",`, 1)
	res := app.do(t, http.MethodPost, "/movies", body, nil)
	require.Equal(t, http.StatusCreated, res.status)
	assert.NotEqual(t, "a1", decodeBody[data.Movie](t, res).ID)

	res = app.do(t, http.MethodGet, "/movies/a1", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Star Wars", decodeBody[data.Movie](t, res).Title)
}

func TestCreateMovie_BadBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "empty body", body: "", fields: []string{""}},
		{name: "malformed json", body: `{"title": `, fields: []string{""}},
		{name: "syntax error", body: `{"title" "x"}`, fields: []string{""}},
		{name: "two values", body: `{} {}`, fields: []string{""}},
		{name: "array", body: `[]`, fields: []string{""}},
		{name: "wrong types", body: strings.Replace(newMovieJSON, `"year": 1982`, `"year": "1982"`, 1), fields: []string{"year"}},
		{name: "bad genre", body: strings.Replace(newMovieJSON, `"Sci-Fi"`, `"Western"`, 1), fields: []string{"genre.1"}},
		{name: "huge duration", body: strings.Replace(newMovieJSON, `"duration": 109`, `"duration": 1e300`, 1), fields: []string{"duration"}},
		{name: "duration beyond int64", body: strings.Replace(newMovieJSON, `"duration": 109`, `"duration": 9223372036854775808`, 1), fields: []string{"duration"}},
		{name: "everything missing", body: `{}`, fields: []string{"title", "year", "director", "duration", "rating", "poster", "genre"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(t)

			res := app.do(t, http.MethodPost, "/movies", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, res.status)

			var fields []string
			for _, v := range decodeBody[validationBody](t, res).Error {
				fields = append(fields, v.Field)
				assert.NotEmpty(t, v.Message)
			}
			assert.Equal(t, tt.fields, fields)
			assert.Equal(t, 1, app.models.Movies.Len())
		})
	}
}

func TestCreateMovie_BodyTooLarge(t *testing.T) {
	app := newTestApplication(t)

	body := fmt.Sprintf(`{"title": %q}`, strings.Repeat("x", maxBodyBytes))
	res := app.do(t, http.MethodPost, "/movies", body, nil)
	require.Equal(t, http.StatusBadRequest, res.status)

	violations := decodeBody[validationBody](t, res).Error
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "must not be larger than")
}

func TestUpdateMovie(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodPatch, "/movies/a1", `{"title": "Star Wars: Episode IV", "genre": ["Sci-Fi"], "rating": 9}`, nil)
	require.Equal(t, http.StatusOK, res.status)

	want := *starWars()
	want.Title = "Star Wars: Episode IV"
	want.Genre = []string{"Sci-Fi"}
	want.Rating = 9
	assert.Equal(t, want, decodeBody[data.Movie](t, res))

	res = app.do(t, http.MethodGet, "/movies/a1", "", nil)
	assert.Equal(t, want, decodeBody[data.Movie](t, res))
}

func TestUpdateMovie_CannotChangeID(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodPatch, "/movies/a1", `{"id": "zz"}`, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, *starWars(), decodeBody[data.Movie](t, res))

	res = app.do(t, http.MethodGet, "/movies/zz", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestUpdateMovie_Errors(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodPatch, "/movies/a1", `{"duration": -5}`, nil)
	require.Equal(t, http.StatusBadRequest, res.status)
	violations := decodeBody[validationBody](t, res).Error
	require.Len(t, violations, 1)
	assert.Equal(t, "duration", violations[0].Field)

	res = app.do(t, http.MethodPatch, "/movies/missing", `{"year": 1980}`, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Movie not found", decodeBody[messageBody](t, res).Message)

	// Validation runs before the lookup.
	res = app.do(t, http.MethodPatch, "/movies/missing", `{"year": "soon"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = app.do(t, http.MethodGet, "/movies/a1", "", nil)
	assert.Equal(t, *starWars(), decodeBody[data.Movie](t, res))
}

func TestDeleteMovie_Missing(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodDelete, "/movies/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Movie not found", decodeBody[messageBody](t, res).Message)
	assert.Equal(t, 1, app.models.Movies.Len())
}

func TestUnmatchedRoutes(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodGet, "/films", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "application/json", res.header.Get("Content-Type"))

	res = app.do(t, http.MethodPut, "/movies/a1", `{}`, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.status)
	assert.Contains(t, res.header.Get("Allow"), http.MethodPatch)
}

func TestHealthcheck(t *testing.T) {
	app := newTestApplication(t)

	res := app.do(t, http.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, res.status)

	body := decodeBody[struct {
		Status     string `json:"status"`
		SystemInfo struct {
			Environment string `json:"environment"`
			Version     string `json:"version"`
			Movies      int    `json:"movies"`
		} `json:"system_info"`
	}](t, res)

	assert.Equal(t, "available", body.Status)
	assert.Equal(t, "development", body.SystemInfo.Environment)
	assert.Equal(t, appVersion, body.SystemInfo.Version)
	assert.Equal(t, 1, body.SystemInfo.Movies)
}
