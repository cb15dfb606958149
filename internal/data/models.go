// internal/data/models.go
package data

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Models is a top-level container that groups all model types together.
// It is passed around the application via applicationDependencies so every
// handler reaches the store through an explicit handle.
type Models struct {
	Movies *MovieModel // The movie collection
}

// NewModels constructs a Models value whose movie store is seeded with movies.
// Call this once during application startup.
func NewModels(movies []*Movie) Models {
	return Models{
		Movies: NewMovieModel(movies),
	}
}

var (
	// ErrRecordNotFound is returned when no movie has the requested id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when every generated id collided with an
	// existing record.
	ErrDuplicateID = errors.New("could not generate a unique id")
)

// maxIDAttempts bounds how many fresh ids Insert draws before giving up.
const maxIDAttempts = 3

// MovieModel is the in-memory movie store. Records are kept in insertion
// order. Readers share the lock; Insert, Update and Delete hold it
// exclusively. Every record handed out is a copy.
type MovieModel struct {
	mu     sync.RWMutex
	movies []*Movie
	newID  func() string
}

// NewMovieModel returns a store holding copies of movies, in order.
func NewMovieModel(movies []*Movie) *MovieModel {
	m := &MovieModel{
		movies: make([]*Movie, 0, len(movies)),
		newID:  uuid.NewString,
	}
	for _, movie := range movies {
		m.movies = append(m.movies, movie.clone())
	}
	return m
}

// Len returns the number of movies in the store.
func (m *MovieModel) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.movies)
}

// GetAll returns every movie, or when genre is non-empty only the movies
// tagged with that genre, compared with Unicode case folding.
func (m *MovieModel) GetAll(genre string) []*Movie {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Movie{}
	if genre == "" {
		for _, movie := range m.movies {
			out = append(out, movie.clone())
		}
		return out
	}

	// A Caser is stateful, so each call gets its own.
	fold := cases.Fold()
	want := fold.String(genre)
	for _, movie := range m.movies {
		for _, g := range movie.Genre {
			if fold.String(g) == want {
				out = append(out, movie.clone())
				break
			}
		}
	}
	return out
}

// Get returns the movie with the given id.
// Returns ErrRecordNotFound if no movie with that id exists.
func (m *MovieModel) Get(id string) (*Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	return m.movies[i].clone(), nil
}

// Insert creates a movie from fully validated fields, assigns it a fresh id
// and appends it to the collection.
func (m *MovieModel) Insert(fields MovieFields) (*Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := m.newID()
		if candidate != "" && m.indexOf(candidate) < 0 {
			id = candidate
			break
		}
	}
	if id == "" {
		return nil, ErrDuplicateID
	}

	movie := &Movie{ID: id}
	fields.apply(movie)
	m.movies = append(m.movies, movie)
	return movie.clone(), nil
}

// Update overwrites the supplied fields of the movie with the given id,
// keeping its id, its position and every field not present in fields.
// Returns ErrRecordNotFound if no movie with that id exists.
func (m *MovieModel) Update(id string, fields MovieFields) (*Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}

	updated := m.movies[i].clone()
	fields.apply(updated)
	m.movies[i] = updated
	return updated.clone(), nil
}

// Delete removes the movie with the given id.
// Returns ErrRecordNotFound, leaving the store untouched, if it does not exist.
func (m *MovieModel) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrRecordNotFound
	}
	m.movies = slices.Delete(m.movies, i, i+1)
	return nil
}

// indexOf must be called with mu held.
func (m *MovieModel) indexOf(id string) int {
	return slices.IndexFunc(m.movies, func(movie *Movie) bool {
		return movie.ID == id
	})
}
