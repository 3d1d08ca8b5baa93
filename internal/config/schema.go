package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema is the JSON Schema the configuration document must satisfy
// before struct-level validation runs. Schema errors carry field paths, so
// a malformed file fails with a precise message instead of a zero-valued
// struct.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["apps"],
  "properties": {
    "settings": {
      "type": "object",
      "properties": {
        "architectures": {
          "type": "array",
          "items": {
            "type": "string",
            "enum": ["armeabi-v7a", "arm64-v8a", "x86", "x86_64", "universal"]
          }
        },
        "prefer_nodpi": {"type": "boolean"},
        "download_multiple_architectures": {"type": "boolean"},
        "max_retries": {"type": "integer", "minimum": 0},
        "retry_delay": {"type": "integer", "minimum": 0},
        "parallel_apps": {"type": "integer", "minimum": 0}
      },
      "additionalProperties": true
    },
    "apps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "package_name", "download_url"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "package_name": {"type": "string", "minLength": 1},
          "download_url": {"type": "string", "minLength": 1},
          "enabled": {"type": "boolean"}
        },
        "additionalProperties": true
      }
    }
  }
}`

// SchemaError reports the field-level violations of a config document.
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:\n")
	for i, msg := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, msg))
	}
	return sb.String()
}

// validateSchema checks the raw config document against configSchema.
func validateSchema(document string) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewStringLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation could not run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Errors: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return schemaErr
}
