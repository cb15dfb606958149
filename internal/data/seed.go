package data

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed movies.json
var bundledMovies []byte

// Dataset formats understood by DecodeMovies.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadMovies reads the initial movie collection. An empty path selects the
// dataset bundled into the binary; otherwise the file's extension picks the
// format (.yaml and .yml are YAML, anything else is JSON).
func LoadMovies(path string) ([]*Movie, error) {
	if path == "" {
		return DecodeMovies(bundledMovies, FormatJSON)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	movies, err := DecodeMovies(raw, format)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return movies, nil
}

// DecodeMovies parses a list of movie documents and checks every entry
// against the same rules a create request must satisfy. Each entry must also
// carry a non-empty id that no other entry uses.
func DecodeMovies(raw []byte, format string) ([]*Movie, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		// Re-encode as JSON so both formats reach validation with the same
		// value types.
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		js, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		raw = js
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}

	var docs []any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decode dataset: must only contain a single value")
	}

	movies := make([]*Movie, 0, len(docs))
	seen := make(map[string]int, len(docs))

	for i, doc := range docs {
		obj, _ := doc.(map[string]any)
		id, _ := obj["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("movie %d: id must be a non-empty string", i)
		}
		if first, dup := seen[id]; dup {
			return nil, fmt.Errorf("movie %d: id %q already used by movie %d", i, id, first)
		}
		seen[id] = i

		fields, err := ValidateMovie(obj)
		if err != nil {
			return nil, fmt.Errorf("movie %d (%s): %w", i, id, err)
		}

		movie := &Movie{ID: id}
		fields.apply(movie)
		movies = append(movies, movie)
	}

	return movies, nil
}
