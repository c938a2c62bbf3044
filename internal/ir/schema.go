package ir

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// JSONSchema reflects the document schema from the Go types.
func JSONSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{}
	schema := reflector.Reflect(new(Document))
	schema.Title = "uibridge IR document"
	schema.Description = "Neutral UI scene-graph document, IR version " + IRVersion
	return schema
}

// MarshalSchema returns the indented schema bytes with a trailing newline.
func MarshalSchema() ([]byte, error) {
	data, err := json.MarshalIndent(JSONSchema(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
