package swagger

import _ "embed"

// OpenAPI contains the embedded OpenAPI YAML specification.
//
//go:embed openapi.yaml
var OpenAPI []byte

// JobsSchema is the JSON Schema of a successful /api/jobs payload.
//
//go:embed jobs.schema.json
var JobsSchema []byte
