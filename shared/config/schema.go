package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes the configuration file for editors and validation.
func JSONSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		FieldNameTag:              "yaml",
	}
	schema := reflector.Reflect(&Config{})
	schema.Title = "DeepAgents server configuration"
	return json.MarshalIndent(schema, "", "  ")
}
