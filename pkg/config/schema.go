package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema is the JSON Schema every configuration document must satisfy
// before strict decoding. Unknown keys and wrongly typed values fail here
// with the offending location in the message.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "floatlog configuration",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "server": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535},
        "api_key": {"type": "string"},
        "cors": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "enabled": {"type": "boolean"},
            "origins": {
              "type": "array",
              "items": {"type": "string"}
            }
          }
        }
      }
    },
    "store": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "max_entries": {"type": "integer", "minimum": 0}
      }
    },
    "log": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "level": {"enum": ["debug", "info", "warn", "error"]},
        "format": {"enum": ["text", "json"]},
        "output": {"type": "string", "minLength": 1}
      }
    },
    "stream": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "keepalive": {
          "type": "string",
          "pattern": "^([0-9]+(\\.[0-9]+)?(ns|us|ms|s|m|h))+$"
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("config.schema.json")
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a decoded configuration document against the
// embedded schema.
func validateDocument(doc interface{}) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	normalized, err := normalizeDocument(doc)
	if err != nil {
		return err
	}

	if err := schema.Validate(normalized); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("config schema: %s", flattenSchemaError(ve))
		}
		return fmt.Errorf("config schema: %w", err)
	}
	return nil
}

// normalizeDocument round-trips the document through JSON so YAML-decoded
// values carry the types the validator expects.
func normalizeDocument(doc interface{}) (interface{}, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	return normalized, nil
}

// flattenSchemaError collects the innermost causes of a validation error,
// which carry the messages worth showing.
func flattenSchemaError(err *jsonschema.ValidationError) string {
	leaves := leafCauses(err)
	msgs := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", loc, leaf.Message))
	}
	return strings.Join(msgs, "; ")
}

func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}
