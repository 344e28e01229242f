// Package schema describes the options record as an OpenAPI document and
// validates JSON payloads against it.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-settingspage/pkg/options"
)

// ErrInvalidRecord wraps schema violations reported by Validate.
var ErrInvalidRecord = errors.New("schema: invalid options record")

// RecordSchemaName is the component name of the record schema.
const RecordSchemaName = "OptionsRecord"

// Allowed values per key. The empty string is always accepted and means unset.
var enums = map[string][]any{
	options.KeyActivate:        {"", "activate", "deactivate"},
	options.KeyRadio:           {"", "1", "2"},
	options.KeyCheckboxOption1: {"", "1"},
	options.KeyCheckboxOption2: {"", "2"},
}

// RecordSchema returns the JSON schema of the options record. Unknown keys
// are rejected; missing keys are allowed and read as "".
func RecordSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, key := range options.Keys() {
		prop := openapi3.NewStringSchema()
		if values, ok := enums[key]; ok {
			prop = prop.WithEnum(values...)
		}
		schema = schema.WithProperty(key, prop)
	}
	closed := false
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &closed}
	return schema
}

// Document returns an OpenAPI document for the options API.
func Document(version string) *openapi3.T {
	if version == "" {
		version = "1.0.0"
	}
	record := openapi3.NewSchemaRef("#/components/schemas/"+RecordSchemaName, RecordSchema())

	get := openapi3.NewOperation()
	get.OperationID = "getOptions"
	get.Summary = "Read the options record"
	get.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("The stored options record").
			WithJSONSchemaRef(record)}),
		openapi3.WithStatus(403, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Caller lacks the page capability")}),
	)

	put := openapi3.NewOperation()
	put.OperationID = "putOptions"
	put.Summary = "Overwrite the options record"
	put.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchemaRef(record)}
	put.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("The saved options record").
			WithJSONSchemaRef(record)}),
		openapi3.WithStatus(400, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Payload does not match the record schema")}),
		openapi3.WithStatus(403, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Caller lacks the page capability")}),
	)

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Settings page options",
			Version: version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/api/options", &openapi3.PathItem{Get: get, Put: put}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				RecordSchemaName: openapi3.NewSchemaRef("", RecordSchema()),
			},
		},
	}
}

// Validate checks a JSON payload against RecordSchema and decodes it.
func Validate(data []byte) (options.Record, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return options.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := RecordSchema().VisitJSON(value); err != nil {
		return options.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return options.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return options.FromMap(raw), nil
}
