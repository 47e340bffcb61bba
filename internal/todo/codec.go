package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todo-go/internal/utils"
)

// SchemaURL identifies the embedded store schema.
const SchemaURL = "https://github.com/nibzard/todo-go/tasks.schema.json"

//go:embed tasks.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the raw JSON Schema the durable format is checked against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func storeSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(SchemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add store schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(SchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile store schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Decode parses and validates an encoded store. Anything that is not
// exactly the durable shape yields a *CorruptionError.
func Decode(data []byte) (*Store, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, corrupt(&SchemaError{Err: fmt.Errorf("parse: %w", err)})
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, corrupt(&SchemaError{Err: errors.New("parse: trailing data after store object")})
	}

	schema, err := storeSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &CorruptionError{Errors: schemaErrors(err)}
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, corrupt(&SchemaError{Err: fmt.Errorf("decode: %w", err)})
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode writes the store with 2-space indentation and a trailing newline.
// Empty collections are written as [] rather than null.
func Encode(s *Store) ([]byte, error) {
	out := Store{Saved: s.Saved, Drafts: s.Drafts}
	if out.Saved == nil {
		out.Saved = []Task{}
	}
	if out.Drafts == nil {
		out.Drafts = []Task{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task store: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')
	return data, nil
}

// Validate checks the invariants the schema cannot express: ids unique
// across both collections, non-blank titles, statuses matching their
// collection and updated_at never before created_at.
func (s *Store) Validate() error {
	var errs []error
	seen := make(map[string]string)

	check := func(coll string, want Status, tasks []Task) {
		for i := range tasks {
			task := &tasks[i]
			path := fmt.Sprintf("%s[%d]", coll, i)

			if task.ID == "" {
				errs = append(errs, &SchemaError{Path: path + ".id", Err: errors.New("missing required field")})
			} else if prev, dup := seen[task.ID]; dup {
				errs = append(errs, &SchemaError{Path: path + ".id", Err: fmt.Errorf("duplicate id %q (also at %s)", task.ID, prev)})
			} else {
				seen[task.ID] = path
			}

			if strings.TrimSpace(task.Title) == "" {
				errs = append(errs, &SchemaError{Path: path + ".title", Err: errEmptyTitle})
			}
			if task.Status != want {
				errs = append(errs, &SchemaError{Path: path + ".status", Err: fmt.Errorf("expected %q, got %q", want, task.Status)})
			}
			if want == StatusDraft && task.Completed {
				errs = append(errs, &SchemaError{Path: path + ".completed", Err: errors.New("drafts cannot be completed")})
			}
			if task.UpdatedAt.Before(task.CreatedAt) {
				errs = append(errs, &SchemaError{Path: path + ".updated_at", Err: errors.New("earlier than created_at")})
			}
		}
	}
	check("saved", StatusSaved, s.Saved)
	check("drafts", StatusDraft, s.Drafts)

	if len(errs) > 0 {
		return &CorruptionError{Errors: errs}
	}
	return nil
}

func corrupt(err error) *CorruptionError {
	return &CorruptionError{Errors: []error{err}}
}

func schemaErrors(err error) []error {
	var out []error
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{err}
	}
	collectSchemaErrors(&out, ve)
	if len(out) == 0 {
		out = append(out, &SchemaError{Err: errors.New(ve.Message)})
	}
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*out = append(*out, &SchemaError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}
