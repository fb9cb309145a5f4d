// Package openapi generates the OpenAPI 3.0 description of the menu API by
// reflecting on the request and response types.
package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/quickbite/menu/internal/core/domain"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Generator
// =============================================================================

// Generator produces OpenAPI 3.0 specifications from registered resources.
type Generator struct {
	title       string
	version     string
	description string
	servers     []string
	resources   []ResourceInfo
	mu          sync.RWMutex
	cachedSpec  *openapi3.T
}

// ResourceInfo describes a REST collection served under /api/{Name}.
type ResourceInfo struct {
	Name           string // Path segment (e.g., "fooditems")
	SchemaName     string // Component schema name (e.g., "FoodItem")
	Model          any    // Response body
	CreateModel    any    // POST body; Model is used when nil
	UpdateModel    any    // PUT body; Model is used when nil
	SupportsFind   bool   // GET /{name} and GET /{name}/{id}
	SupportsCreate bool   // POST /{name}
	SupportsUpdate bool   // PUT /{name}/{id}
	SupportsDelete bool   // DELETE /{name}/{id}
}

// Option configures the generator.
type Option func(*Generator)

// WithTitle sets the API title.
func WithTitle(title string) Option {
	return func(g *Generator) {
		g.title = title
	}
}

// WithVersion sets the API version.
func WithVersion(version string) Option {
	return func(g *Generator) {
		g.version = version
	}
}

// WithDescription sets the API description.
func WithDescription(description string) Option {
	return func(g *Generator) {
		g.description = description
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(g *Generator) {
		g.servers = append(g.servers, url)
	}
}

// NewGenerator creates a new OpenAPI generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		title:       "QuickBite Menu API",
		version:     "1.0.0",
		description: "Restaurant menu catalog",
		resources:   make([]ResourceInfo, 0),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RegisterResource adds a resource to the generator for spec generation.
func (g *Generator) RegisterResource(info ResourceInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resources = append(g.resources, info)
	g.cachedSpec = nil // Invalidate cache
}

// Generate produces the complete OpenAPI 3.0 specification.
func (g *Generator) Generate() *openapi3.T {
	g.mu.RLock()
	if g.cachedSpec != nil {
		spec := g.cachedSpec
		g.mu.RUnlock()
		return spec
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	// Double-check after acquiring write lock
	if g.cachedSpec != nil {
		return g.cachedSpec
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       g.title,
			Version:     g.version,
			Description: g.description,
		},
		Servers: make(openapi3.Servers, 0, len(g.servers)),
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	for _, url := range g.servers {
		spec.Servers = append(spec.Servers, &openapi3.Server{URL: url})
	}

	g.addCommonSchemas(spec)

	for _, res := range g.resources {
		g.addResourceToSpec(spec, res)
	}

	g.cachedSpec = spec
	return spec
}

// Handler returns an HTTP handler that serves the OpenAPI specification.
func (g *Generator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := g.Generate()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if err := json.NewEncoder(w).Encode(spec); err != nil {
			http.Error(w, "Failed to encode OpenAPI spec", http.StatusInternalServerError)
		}
	}
}

// =============================================================================
// Schema Generation
// =============================================================================

func typeSchema(typ string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{typ}}}
}

func componentRef(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
}

// addCommonSchemas adds the error body shared by every endpoint.
func (g *Generator) addCommonSchemas(spec *openapi3.T) {
	spec.Components.Schemas["ValidationDetail"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"field":          typeSchema("string"),
				"message":        typeSchema("string"),
				"attemptedValue": {Value: &openapi3.Schema{Nullable: true}},
			},
			Required: []string{"field", "message"},
		},
	}

	spec.Components.Schemas["Error"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": typeSchema("string"),
				"code":  typeSchema("string"),
				"details": {
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: componentRef("ValidationDetail"),
					},
				},
			},
			Required: []string{"error", "code"},
		},
	}
}

// addResourceToSpec adds paths and schemas for a resource.
func (g *Generator) addResourceToSpec(spec *openapi3.T, res ResourceInfo) {
	basePath := "/api/" + res.Name
	schemaName := res.SchemaName
	if schemaName == "" {
		schemaName = capitalize(singularize(res.Name))
	}

	spec.Components.Schemas[schemaName] = g.extractSchema(res.Model)

	createName, updateName := schemaName, schemaName
	if res.CreateModel != nil {
		createName = "Create" + schemaName + "Request"
		spec.Components.Schemas[createName] = g.extractSchema(res.CreateModel)
	}
	if res.UpdateModel != nil {
		updateName = "Update" + schemaName + "Request"
		spec.Components.Schemas[updateName] = g.extractSchema(res.UpdateModel)
	}

	collectionPath := &openapi3.PathItem{}
	if res.SupportsFind {
		collectionPath.Get = g.createListOperation(res, schemaName)
	}
	if res.SupportsCreate {
		collectionPath.Post = g.createCreateOperation(res, schemaName, createName)
	}
	spec.Paths.Set(basePath, collectionPath)

	itemPath := &openapi3.PathItem{
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{
				Value: &openapi3.Parameter{
					Name:     "id",
					In:       "path",
					Required: true,
					Schema:   typeSchema("string"),
				},
			},
		},
	}
	if res.SupportsFind {
		itemPath.Get = g.createGetOperation(res, schemaName)
	}
	if res.SupportsUpdate {
		itemPath.Put = g.createUpdateOperation(res, schemaName, updateName)
	}
	if res.SupportsDelete {
		itemPath.Delete = g.createDeleteOperation(res, schemaName)
	}
	spec.Paths.Set(basePath+"/{id}", itemPath)
}

// extractSchema extracts an OpenAPI schema from a Go struct.
func (g *Generator) extractSchema(model any) *openapi3.SchemaRef {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: make(openapi3.Schemas),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
		}

		if propSchema := g.goTypeToSchema(field.Type); propSchema != nil {
			schema.Properties[name] = propSchema
		}
	}

	return &openapi3.SchemaRef{Value: schema}
}

var (
	timeType       = reflect.TypeOf(time.Time{})
	decimalType    = reflect.TypeOf(decimal.Decimal{})
	jsonNumberType = reflect.TypeOf(json.Number(""))
	categoryType   = reflect.TypeOf(domain.Category(0))
	dietaryTagType = reflect.TypeOf(domain.DietaryTag(0))
)

// goTypeToSchema converts a Go type to an OpenAPI schema.
func (g *Generator) goTypeToSchema(t reflect.Type) *openapi3.SchemaRef {
	switch t {
	case timeType:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}}
	case decimalType, jsonNumberType:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "decimal"}}
	case categoryType:
		return enumSchema(domain.Categories())
	case dietaryTagType:
		return enumSchema(domain.DietaryTags())
	}

	switch t.Kind() {
	case reflect.String:
		return typeSchema("string")

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}}

	case reflect.Int64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return typeSchema("integer")

	case reflect.Float32, reflect.Float64:
		return typeSchema("number")

	case reflect.Bool:
		return typeSchema("boolean")

	case reflect.Slice, reflect.Array:
		return &openapi3.SchemaRef{
			Value: &openapi3.Schema{
				Type:  &openapi3.Types{"array"},
				Items: g.goTypeToSchema(t.Elem()),
			},
		}

	case reflect.Ptr:
		schema := g.goTypeToSchema(t.Elem())
		if schema != nil && schema.Value != nil {
			schema.Value.Nullable = true
		}
		return schema

	case reflect.Struct:
		return g.extractSchema(reflect.New(t).Interface())

	default:
		return typeSchema("object")
	}
}

// enumSchema lists the names of a closed enumeration.
func enumSchema[T interface{ String() string }](values []T) *openapi3.SchemaRef {
	names := make([]any, 0, len(values))
	for _, v := range values {
		names = append(names, v.String())
	}
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Enum: names}}
}

// =============================================================================
// Operation Generation
// =============================================================================

func jsonContent(schema *openapi3.SchemaRef) openapi3.Content {
	return openapi3.NewContentWithJSONSchemaRef(schema)
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithContent(jsonContent(schema)),
	}
}

func emptyResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description)}
}

func requestBody(schemaName string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithContent(jsonContent(componentRef(schemaName))),
	}
}

func responses(entries map[string]*openapi3.ResponseRef) *openapi3.Responses {
	r := openapi3.NewResponsesWithCapacity(len(entries) + 1)
	for status, ref := range entries {
		r.Set(status, ref)
	}
	r.Set("500", jsonResponse("Internal server error", componentRef("Error")))
	return r
}

func (g *Generator) createListOperation(res ResourceInfo, schemaName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "list" + capitalize(res.Name),
		Summary:     "List " + res.Name,
		Tags:        []string{capitalize(res.Name)},
		Responses: responses(map[string]*openapi3.ResponseRef{
			"200": jsonResponse("All items in insertion order", &openapi3.SchemaRef{
				Value: &openapi3.Schema{Type: &openapi3.Types{"array"}, Items: componentRef(schemaName)},
			}),
		}),
	}
}

func (g *Generator) createGetOperation(res ResourceInfo, schemaName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "get" + schemaName,
		Summary:     "Get a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		Responses: responses(map[string]*openapi3.ResponseRef{
			"200": jsonResponse("The item", componentRef(schemaName)),
			"404": emptyResponse("Not found"),
		}),
	}
}

func (g *Generator) createCreateOperation(res ResourceInfo, schemaName, bodyName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "create" + schemaName,
		Summary:     "Create a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		RequestBody: requestBody(bodyName),
		Responses: responses(map[string]*openapi3.ResponseRef{
			"201": jsonResponse("Created; Location holds the item URL", componentRef(schemaName)),
			"400": jsonResponse("Validation failed", componentRef("Error")),
		}),
	}
}

func (g *Generator) createUpdateOperation(res ResourceInfo, schemaName, bodyName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "update" + schemaName,
		Summary:     "Update a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		RequestBody: requestBody(bodyName),
		Responses: responses(map[string]*openapi3.ResponseRef{
			"200": jsonResponse("The updated item", componentRef(schemaName)),
			"400": jsonResponse("Validation failed", componentRef("Error")),
			"404": emptyResponse("Not found"),
		}),
	}
}

func (g *Generator) createDeleteOperation(res ResourceInfo, schemaName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "delete" + schemaName,
		Summary:     "Delete a " + singularize(res.Name),
		Tags:        []string{capitalize(res.Name)},
		Responses: responses(map[string]*openapi3.ResponseRef{
			"204": emptyResponse("Deleted"),
			"404": emptyResponse("Not found"),
		}),
	}
}

// =============================================================================
// Helpers
// =============================================================================

// capitalize returns the string with the first letter capitalized.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// singularize performs basic singularization (removes trailing 's').
func singularize(s string) string {
	if strings.HasSuffix(s, "ies") {
		return s[:len(s)-3] + "y"
	}
	if strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}
