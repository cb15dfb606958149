package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aoideee/movies-api/internal/config"
	"github.com/aoideee/movies-api/internal/cors"
	"github.com/aoideee/movies-api/internal/data"
)

func starWars() *data.Movie {
	return &data.Movie{
		ID:       "a1",
		Title:    "Star Wars",
		Year:     1977,
		Director: "George Lucas",
		Duration: 121,
		Poster:   "https://example.com/star-wars.jpg",
		Genre:    []string{"Adventure", "Action"},
		Rating:   8.6,
	}
}

// newTestApplication returns an application seeded with the Star Wars record
// and the rate limiter switched off.
func newTestApplication(t *testing.T, movies ...*data.Movie) *applicationDependencies {
	t.Helper()

	if len(movies) == 0 {
		movies = []*data.Movie{starWars()}
	}

	settings := config.Default()
	settings.Limiter.Enabled = false

	return &applicationDependencies{
		config:  settings,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		models:  data.NewModels(movies),
		origins: cors.New(settings.CORS.TrustedOrigins...),
	}
}

type testResponse struct {
	status int
	header http.Header
	body   []byte
}

func (app *applicationDependencies) do(t *testing.T, method, target, body string, headers map[string]string) testResponse {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	app.routes(t.Context()).ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return testResponse{status: res.StatusCode, header: res.Header, body: b}
}

func decodeBody[T any](t *testing.T, res testResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(res.body, &v), string(res.body))
	return v
}
