// Package tool turns plain Go functions into model-callable tool
// definitions. A Definition carries the function, its description, and the
// positional-to-named parameter mapping used to build the JSON schema the
// model sees.
package tool

import (
	"fmt"
	"reflect"

	"github.com/fogfish/opts"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/scoutrun/routescout/pkg/reflectx"
	"github.com/scoutrun/routescout/pkg/stdx"
	"github.com/scoutrun/routescout/types"
)

// Definition describes one tool: a Go function plus the metadata the model
// needs to call it. Parameters maps positional keys ("param0", "param1"...)
// to the names exposed in the schema.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]string
	Function    any
}

var functionReflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// ToNameAndSchema reflects the tool's function signature into a JSON schema
// suitable for a function declaration.
func (td Definition) ToNameAndSchema() (string, *jsonschema.Schema) {
	name := td.Name
	if name == "" {
		name = reflectx.FunctionName(td.Function)
	}

	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}

	typ := reflect.TypeOf(td.Function)
	if typ == nil || typ.Kind() != reflect.Func {
		return name, schema
	}

	var required []string
	argIdx := 0
	for i := 0; i < typ.NumIn(); i++ {
		paramType := typ.In(i)
		// Context variables are injected by the executor, not the model.
		if reflectx.IsRefinedType[types.ContextVars](paramType) {
			continue
		}

		paramName := fmt.Sprintf("param%d", argIdx)
		if td.Parameters != nil {
			if p, ok := td.Parameters[paramName]; ok {
				paramName = p
			}
		}
		argIdx++

		propSchema := functionReflector.ReflectFromType(paramType)
		propSchema.Version = ""
		schema.Properties.Set(paramName, propSchema)
		required = append(required, paramName)
	}
	if len(required) > 0 {
		schema.Required = required
	}

	return name, schema
}

// Option configures a Definition.
type Option = opts.Option[Definition]

// Must is New with errors turned into panics, for package-level tool
// declarations.
func Must(f any, options ...Option) Definition {
	return stdx.Must1(New(f, options...))
}

// New builds a Definition from the provided function and options.
func New(f any, options ...Option) (Definition, error) {
	if !reflectx.IsFunction(f) {
		return Definition{}, fmt.Errorf("provided value is not a function")
	}

	var def Definition
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if def.Name == "" {
		def.Name = reflectx.FunctionName(f)
	}

	def.Function = f
	return def, nil
}

// Name sets the tool's exposed name.
var Name = opts.ForName[Definition, string]("Name")

// Description sets the tool's description shown to the model.
var Description = opts.ForName[Definition, string]("Description")

// Parameters names the function's positional parameters, in order, as they
// should appear in the schema.
func Parameters(parameters ...string) opts.Option[Definition] {
	return opts.Type[Definition](func(o *Definition) error {
		o.Parameters = make(map[string]string, len(parameters))
		for i, p := range parameters {
			o.Parameters[fmt.Sprintf("param%d", i)] = p
		}
		return nil
	})
}
