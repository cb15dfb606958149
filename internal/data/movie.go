// Package data provides the movie model, its validation rules and the
// in-memory store that holds the movie collection for the lifetime of the
// process.
package data

import (
	_ "embed"
	"encoding/json"
	"math"

	"github.com/aoideee/movies-api/internal/validator"
)

// Genres is the fixed vocabulary a movie's genre tags are drawn from.
var Genres = []string{"Action", "Adventure", "Comedy", "Crime", "Drama", "Fantasy", "Horror", "Thriller", "Sci-Fi"}

// Movie represents a single movie record held by the store.
type Movie struct {
	ID       string   `json:"id"`       // Server-assigned UUID, immutable
	Title    string   `json:"title"`    // Non-empty title
	Year     int      `json:"year"`     // Release year
	Director string   `json:"director"` // Non-empty director name
	Duration int      `json:"duration"` // Running time in minutes
	Poster   string   `json:"poster"`   // Absolute URL of the poster image
	Genre    []string `json:"genre"`    // Unique tags from Genres
	Rating   float64  `json:"rating"`   // 0 to 10
}

func (m *Movie) clone() *Movie {
	c := *m
	c.Genre = append([]string(nil), m.Genre...)
	return &c
}

// MovieFields holds normalized, already validated movie fields.
// A nil field was not supplied and is left untouched when the fields are
// applied to a record.
type MovieFields struct {
	Title    *string
	Year     *int
	Director *string
	Duration *int
	Poster   *string
	Genre    []string
	Rating   *float64
}

// apply overwrites the fields of m that are set in f.
func (f MovieFields) apply(m *Movie) {
	if f.Title != nil {
		m.Title = *f.Title
	}
	if f.Year != nil {
		m.Year = *f.Year
	}
	if f.Director != nil {
		m.Director = *f.Director
	}
	if f.Duration != nil {
		m.Duration = *f.Duration
	}
	if f.Poster != nil {
		m.Poster = *f.Poster
	}
	if f.Genre != nil {
		m.Genre = append([]string(nil), f.Genre...)
	}
	if f.Rating != nil {
		m.Rating = *f.Rating
	}
}

// requiredFields lists, in report order, the fields a new movie must carry.
var requiredFields = []string{"title", "year", "director", "duration", "rating", "poster", "genre"}

//go:embed movie.schema.json
var movieSchemaJSON []byte

var movieSchema = validator.MustCompileSchema("movie.schema.json", movieSchemaJSON)

// ValidateMovie checks a decoded JSON document as the body of a create
// request. Every movie field is required. On failure the error is a
// *validator.ValidationError.
func ValidateMovie(input any) (MovieFields, error) {
	return validateMovie(input, false)
}

// ValidatePartialMovie checks a decoded JSON document as the body of a
// partial update. Fields are optional but must be valid when present.
func ValidatePartialMovie(input any) (MovieFields, error) {
	return validateMovie(input, true)
}

func validateMovie(input any, partial bool) (MovieFields, error) {
	v := validator.New()

	doc, ok := input.(map[string]any)
	if !ok {
		v.AddError("", "body must be a JSON object")
		return MovieFields{}, v.Err()
	}

	if !partial {
		for _, field := range requiredFields {
			_, present := doc[field]
			v.Check(present, field, "is required")
		}
	}

	movieSchema.Check(v, doc)
	if !v.Valid() {
		return MovieFields{}, v.Err()
	}

	fields := normalize(v, doc)
	if err := v.Err(); err != nil {
		return MovieFields{}, err
	}
	return fields, nil
}

// maxExactInt is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactInt = 1 << 53

// normalize copies the known fields out of a document that has passed
// schema validation. Unknown keys, including any client supplied id, are
// dropped. A number the schema accepted but Go cannot represent is recorded
// on v rather than stored as a wrapped or zero value.
func normalize(v *validator.Validator, doc map[string]any) MovieFields {
	var f MovieFields

	if s, ok := doc["title"].(string); ok {
		f.Title = &s
	}
	if s, ok := doc["director"].(string); ok {
		f.Director = &s
	}
	if s, ok := doc["poster"].(string); ok {
		f.Poster = &s
	}
	if raw, present := doc["year"]; present {
		year, ok := integer(raw)
		v.Check(ok, "year", "must be a whole number within range")
		f.Year = &year
	}
	if raw, present := doc["duration"]; present {
		duration, ok := integer(raw)
		v.Check(ok, "duration", "must be a whole number within range")
		f.Duration = &duration
	}
	if raw, present := doc["rating"]; present {
		rating, ok := number(raw)
		v.Check(ok, "rating", "must be a finite number")
		f.Rating = &rating
	}
	if tags, ok := doc["genre"].([]any); ok {
		f.Genre = make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				f.Genre = append(f.Genre, s)
			}
		}
	}

	return f
}

// integer converts a whole JSON number to int. Numbers written with a
// fraction or exponent ("120.0", "1.2e2") are accepted when they are exact.
func integer(v any) (int, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			if i < math.MinInt || i > math.MaxInt {
				return 0, false
			}
			return int(i), true
		}
	}
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, false
	}
	return int(f), true
}

// number accepts both json.Number (decoders with UseNumber) and float64.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
