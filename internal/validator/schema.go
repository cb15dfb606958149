package validator

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled JSON Schema (draft 2020-12) whose failures are
// reported as violations on a Validator.
type Schema struct {
	schema *jsonschema.Schema
}

// CompileSchema compiles src as a JSON Schema registered under name.
// Format keywords ("uri", "email", ...) are asserted, not just annotated.
func CompileSchema(name string, src []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if err := compiler.AddResource(name, bytes.NewReader(src)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return &Schema{schema: s}, nil
}

// MustCompileSchema is like CompileSchema but panics on error. It is meant
// for schemas embedded in the binary.
func MustCompileSchema(name string, src []byte) *Schema {
	s, err := CompileSchema(name, src)
	if err != nil {
		panic(err)
	}
	return s
}

// Check validates instance, which must be a value produced by a JSON decoder,
// and records every leaf failure on v keyed by its dotted instance path.
// Violations are added in field order so results are stable.
func (s *Schema) Check(v *Validator, instance any) {
	err := s.schema.Validate(instance)
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		v.AddError("", err.Error())
		return
	}

	var leaves []Violation
	collectLeaves(ve, &leaves)
	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].Field < leaves[j].Field
	})
	for _, l := range leaves {
		v.AddError(l.Field, l.Message)
	}
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]Violation) {
	if len(ve.Causes) == 0 {
		*out = append(*out, Violation{
			Field:   fieldPath(ve.InstanceLocation),
			Message: ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}

// fieldPath turns a JSON pointer ("/genre/1") into a dotted path ("genre.1").
func fieldPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	segments := strings.Split(pointer, "/")
	for i, seg := range segments {
		seg = strings.ReplaceAll(seg, "~1", "/")
		segments[i] = strings.ReplaceAll(seg, "~0", "~")
	}
	return strings.Join(segments, ".")
}
