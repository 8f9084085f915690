package tool

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/casualjim/cfagui/pkg/stdx"
	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Definition describes a function the model may call. It is forwarded to the
// model service as-is and never interpreted by the event sequencer.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

var parameterReflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// Option is a type alias for a function that modifies a tool definition.
type Option = opts.Option[Definition]

// Name sets the name the model uses to call the tool.
var Name = opts.ForName[Definition, string]("Name")

// Description sets the human readable explanation sent along with the tool.
var Description = opts.ForName[Definition, string]("Description")

// Parameters sets an explicit parameter schema, bypassing reflection.
var Parameters = opts.ForName[Definition, *jsonschema.Schema]("Parameters")

// Must wraps New and panics when the definition is invalid.
func Must[T any](options ...Option) Definition {
	return stdx.Must1(New[T](options...))
}

// New creates a tool definition whose parameter schema is reflected from T,
// which must be a struct. The name defaults to the snake_case form of the
// type name.
func New[T any](options ...Option) (Definition, error) {
	typ := reflect.TypeFor[T]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return Definition{}, fmt.Errorf("tool parameters must be a struct, got %s", typ.Kind())
	}

	var def Definition
	if err := opts.Apply(&def, options); err != nil {
		return Definition{}, err
	}
	if def.Name == "" {
		def.Name = snakeCase(typ.Name())
	}
	if def.Name == "" {
		return Definition{}, errors.New("tool name is required for anonymous parameter types")
	}

	if def.Parameters == nil {
		schema := parameterReflector.ReflectFromType(typ)
		schema.Version = ""
		def.Parameters = schema
	}
	return def, nil
}

// MarshalJSON encodes the definition in the OpenAI function-tool format that
// Workers AI accepts on both its native and compatible endpoints.
func (d Definition) MarshalJSON() ([]byte, error) {
	result := []byte(`{"type":"function","function":{}}`)

	var err error
	result, err = sjson.SetBytes(result, "function.name", d.Name)
	if err != nil {
		return nil, err
	}
	if d.Description != "" {
		result, err = sjson.SetBytes(result, "function.description", d.Description)
		if err != nil {
			return nil, err
		}
	}

	params := []byte(`{"type":"object","properties":{}}`)
	if d.Parameters != nil {
		params, err = json.Marshal(d.Parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal parameters for %s: %w", d.Name, err)
		}
	}
	return sjson.SetRawBytes(result, "function.parameters", params)
}

// UnmarshalJSON accepts either the function-tool envelope or a bare
// {name, description, parameters} object.
func (d *Definition) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	fn := gjson.ParseBytes(data)
	if f := fn.Get("function"); f.Exists() {
		fn = f
	}

	name := fn.Get("name")
	if !name.Exists() || name.String() == "" {
		return errors.New("missing required field 'name'")
	}
	d.Name = name.String()
	d.Description = fn.Get("description").String()
	d.Parameters = nil

	if params := fn.Get("parameters"); params.Exists() {
		var schema jsonschema.Schema
		if err := json.Unmarshal([]byte(params.Raw), &schema); err != nil {
			return fmt.Errorf("invalid parameters for %s: %w", d.Name, err)
		}
		d.Parameters = &schema
	}
	return nil
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
