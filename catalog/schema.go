package catalog

import "github.com/invopop/jsonschema"

// FileSchema returns the JSON schema for catalog TOML files (their object
// shape; TOML and JSON share the same structure). Useful for editor
// integration and pre-deploy validation pipelines.
func FileSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return r.Reflect(&File{})
}

// ClientConfigSchema returns the JSON schema for client configuration
// YAML files.
func ClientConfigSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return r.Reflect(&clientConfigFile{})
}
