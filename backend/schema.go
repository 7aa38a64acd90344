package backend

import (
	"reflect"

	stgpsr "github.com/yuin/stagparser"
)

// ArgSpec describes one positional operation argument.
type ArgSpec struct {
	Name string
	Kind string
}

// argsFromSchema extracts ordered ArgSpecs from a tagged schema struct.
// Each exported field, tagged `op:"kind=..."`, describes one positional
// call argument in order. This repurposes a struct-tag convention
// originally used for array dimension/attribute definitions
// (`tiledb:"dtype=...,ftype=..."` tags parsed via
// github.com/yuin/stagparser) for operation argument schemas instead,
// using the same stagparser.ParseStruct(value, tagName) call shape.
func argsFromSchema(schema any) []ArgSpec {
	defsByField, err := stgpsr.ParseStruct(schema, "op")
	if err != nil {
		panic("backend: bad op schema tag: " + err.Error())
	}

	t := reflect.TypeOf(schema)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	specs := make([]ArgSpec, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fieldName := t.Field(i).Name
		kind := ""
		for _, def := range defsByField[fieldName] {
			if def.Name() == "kind" {
				if v, ok := def.Attribute("kind"); ok {
					kind = v
				}
			}
		}
		specs = append(specs, ArgSpec{Name: fieldName, Kind: kind})
	}
	return specs
}

// Argument kind tokens used in op: tags.
const (
	KindString       = "string"
	KindFloat64      = "float64"
	KindInt          = "int"
	KindStringSlice  = "[]string"
	KindFloat64Slice = "[]float64"
	KindVec3         = "vec3"
	KindAny          = "any"
)
