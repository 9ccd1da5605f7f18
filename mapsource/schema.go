// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package mapsource

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the shape of a configuration value.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindNumber
	KindBool
	KindList
	KindMap
	KindObject
)

var kindNames = [...]string{
	KindAny:    "any",
	KindString: "str",
	KindInt:    "int",
	KindNumber: "number",
	KindBool:   "bool",
	KindList:   "list",
	KindMap:    "map",
	KindObject: "object",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Field describes one key of a source configuration block.
type Field struct {
	// Kind is the accepted shape of the value
	Kind Kind

	// Required documents that the key is expected.  Schema.Check does not
	// enforce it; loaders supply defaults or validate decoded values.
	Required bool

	// Doc is a short description rendered alongside the field
	Doc string

	// Fields holds the nested keys when Kind is KindObject
	Fields map[string]Field
}

// Object is a convenience for declaring a KindObject field.
func Object(required bool, doc string, fields map[string]Field) Field {
	return Field{
		Kind:     KindObject,
		Required: required,
		Doc:      doc,
		Fields:   fields,
	}
}

// Schema is the immutable set of accepted keys for one source type.
// Instances are built explicitly and handed to Registry.Register; nothing
// in this package holds a shared, mutable schema.
type Schema struct {
	fields map[string]Field
}

// NewSchema creates a Schema from a set of fields, which are copied.
func NewSchema(fields map[string]Field) Schema {
	return Schema{fields: copyFields(fields)}
}

func copyFields(fields map[string]Field) map[string]Field {
	if fields == nil {
		return nil
	}

	c := make(map[string]Field, len(fields))
	for name, f := range fields {
		f.Fields = copyFields(f.Fields)
		c[name] = f
	}

	return c
}

// With returns a new Schema with the given field added or replaced.
// This Schema is not modified.
func (s Schema) With(name string, f Field) Schema {
	fields := copyFields(s.fields)
	if fields == nil {
		fields = make(map[string]Field, 1)
	}

	f.Fields = copyFields(f.Fields)
	fields[name] = f
	return Schema{fields: fields}
}

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Names returns the sorted top-level field names.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Len returns the number of top-level fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// SchemaError describes a configuration key that does not fit its Schema.
type SchemaError struct {
	// Path is the dotted key, e.g. retry.max_retries
	Path string

	// Reason explains the mismatch
	Reason string
}

// Error fulfills the error interface
func (se *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", se.Path, se.Reason)
}

// Check verifies that conf contains only known keys and that each value
// has an acceptable kind.  All mismatches are reported, joined together.
// Missing required keys are not reported.
func (s Schema) Check(conf map[string]interface{}) error {
	return errors.Join(checkFields("", s.fields, conf)...)
}

func checkFields(prefix string, fields map[string]Field, conf map[string]interface{}) (errs []error) {
	names := make([]string, 0, len(conf))
	for name := range conf {
		names = append(names, name)
	}

	sort.Strings(names)
	for _, name := range names {
		path := name
		if len(prefix) > 0 {
			path = prefix + "." + name
		}

		f, ok := fields[name]
		if !ok {
			errs = append(errs, &SchemaError{Path: path, Reason: "unknown key"})
			continue
		}

		value := conf[name]
		if value == nil {
			continue
		}

		if !f.Kind.accepts(value) {
			errs = append(errs, &SchemaError{
				Path:   path,
				Reason: fmt.Sprintf("expected %s, got %T", f.Kind, value),
			})

			continue
		}

		if f.Kind == KindObject {
			if nested, ok := asMap(value); ok {
				errs = append(errs, checkFields(path, f.Fields, nested)...)
			}
		}
	}

	return
}

// asMap normalizes the map types produced by YAML parsers
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true

	case map[interface{}]interface{}:
		c := make(map[string]interface{}, len(m))
		for k, v := range m {
			c[fmt.Sprint(k)] = v
		}

		return c, true

	default:
		return nil, false
	}
}

// accepts tests a value against this kind.  Strings are accepted for scalar
// kinds when they parse, since environment overrides arrive as strings.
func (k Kind) accepts(v interface{}) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok

	case KindInt:
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return n == math.Trunc(n)
		case string:
			_, err := strconv.Atoi(strings.TrimSpace(n))
			return err == nil
		}

		return false

	case KindNumber:
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return true
		case string:
			_, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			return err == nil
		}

		return false

	case KindBool:
		switch b := v.(type) {
		case bool:
			return true
		case string:
			_, err := strconv.ParseBool(b)
			return err == nil
		}

		return false

	case KindList:
		switch v.(type) {
		case []interface{}, []string, string:
			// a comma separated string is also accepted
			return true
		}

		return false

	case KindMap, KindObject:
		_, ok := asMap(v)
		return ok

	default:
		return true
	}
}

// MarshalYAML renders this schema as a YAML document.  Each key maps to its
// kind, with required keys marked and docs carried as line comments.
func (s Schema) MarshalYAML() (interface{}, error) {
	return fieldsNode(s.fields), nil
}

func fieldsNode(fields map[string]Field) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	sort.Strings(names)
	for _, name := range names {
		f := fields[name]
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: name}

		var value *yaml.Node
		if f.Kind == KindObject {
			value = fieldsNode(f.Fields)
			key.LineComment = describe(f)
		} else {
			value = &yaml.Node{Kind: yaml.ScalarNode, Value: f.Kind.String()}
			value.LineComment = describe(f)
		}

		n.Content = append(n.Content, key, value)
	}

	return n
}

func describe(f Field) string {
	var o strings.Builder
	if f.Required {
		o.WriteString("required")
	}

	if len(f.Doc) > 0 {
		if o.Len() > 0 {
			o.WriteString(", ")
		}

		o.WriteString(f.Doc)
	}

	return o.String()
}
