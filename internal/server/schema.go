package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const createSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["title", "userId"],
  "properties": {
    "id": {"type": "integer"},
    "title": {"type": "string", "minLength": 1},
    "completed": {"type": "boolean"},
    "userId": {"type": "integer", "minimum": 1}
  }
}`

const updateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "anyOf": [
    {"required": ["title"]},
    {"required": ["completed"]}
  ],
  "properties": {
    "id": {"type": "integer"},
    "title": {"type": "string", "minLength": 1},
    "completed": {"type": "boolean"},
    "userId": {"type": "integer"}
  }
}`

type schemas struct {
	create *jsonschema.Schema
	update *jsonschema.Schema
}

func compileSchemas() (*schemas, error) {
	create, err := compileSchema("create.json", createSchema)
	if err != nil {
		return nil, err
	}
	update, err := compileSchema("update.json", updateSchema)
	if err != nil {
		return nil, err
	}
	return &schemas{create: create, update: update}, nil
}

func compileSchema(name, src string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema, nil
}

// validate checks raw JSON against schema and reports the first failing
// location in a form fit for an error response.
func validate(schema *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		return errors.New(firstCause(ve))
	}
	return nil
}

func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
