// Package registry extracts CloudFormation property maps from the stack
// package's declared values.
//
// The stack is compiled into the binary, so extraction happens in-process:
// each declaration is serialized by reflection, and values that are
// themselves declared resources are replaced by {"Ref": logicalName} using
// signature matching.
package registry

import (
	"encoding/json"
	"fmt"
	"reflect"

	flagrinfra "github.com/openflagr/flagr-infra"
	"github.com/openflagr/flagr-infra/intrinsics"
)

// Values holds the serialized declarations, split by template section.
type Values struct {
	Resources  map[string]map[string]any
	Parameters map[string]map[string]any
	Outputs    map[string]map[string]any
}

// Registry serializes declared values to CloudFormation properties.
type Registry struct {
	decls map[string]any

	// signature -> logical name, for converting nested references to Refs
	resourceSigs  map[string]string
	parameterSigs map[string]string
}

// New creates a registry over the given declarations (logical name -> value).
func New(decls map[string]any) *Registry {
	r := &Registry{
		decls:         decls,
		resourceSigs:  make(map[string]string),
		parameterSigs: make(map[string]string),
	}

	for name, value := range decls {
		if res, ok := value.(flagrinfra.Resource); ok {
			r.resourceSigs[resourceSignature(res)] = name
		}
		if param, ok := value.(intrinsics.Parameter); ok {
			r.parameterSigs[parameterSignature(param)] = name
		}
	}

	return r
}

// Declarations returns the underlying declarations map.
func (r *Registry) Declarations() map[string]any {
	return r.decls
}

// ExtractAll serializes every declaration to its template form.
// Property blocks (nested types, intrinsic helpers) produce no entry of
// their own; they appear inline in the resources that reference them.
func (r *Registry) ExtractAll() (*Values, error) {
	values := &Values{
		Resources:  make(map[string]map[string]any),
		Parameters: make(map[string]map[string]any),
		Outputs:    make(map[string]map[string]any),
	}

	for name, value := range r.decls {
		switch v := value.(type) {
		case intrinsics.Parameter:
			values.Parameters[name] = v.ToDefinition()

		case intrinsics.Output:
			props, err := r.serializeTop(name, value)
			if err != nil {
				return nil, err
			}
			values.Outputs[name] = props

		case flagrinfra.Resource:
			props, err := r.serializeTop(name, value)
			if err != nil {
				return nil, err
			}
			values.Resources[name] = props
		}
	}

	return values, nil
}

// serializeTop serializes a single declaration to a property map.
func (r *Registry) serializeTop(name string, value any) (map[string]any, error) {
	serialized := r.serializeValue(reflect.ValueOf(value), false)
	if serialized == nil {
		return map[string]any{}, nil
	}
	props, ok := serialized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("serializing %s: expected object, got %T", name, serialized)
	}
	return props, nil
}

// serializeValue converts a value to JSON-compatible form.
// When nested is true, declared resources and parameters are replaced by
// Ref objects instead of being inlined.
func (r *Registry) serializeValue(v reflect.Value, nested bool) any {
	if !v.IsValid() {
		return nil
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		return r.serializeValue(v.Elem(), nested)
	}

	if v.CanInterface() {
		iface := v.Interface()

		// Declared parameters always serialize as Refs inside properties.
		if param, ok := iface.(intrinsics.Parameter); ok {
			if name, found := r.parameterSigs[parameterSignature(param)]; found {
				return map[string]any{"Ref": name}
			}
			return map[string]any{"Ref": param.Name()}
		}

		// Nested resource values become Refs to their logical name.
		if nested {
			if res, ok := iface.(flagrinfra.Resource); ok {
				if name, found := r.resourceSigs[resourceSignature(res)]; found {
					return map[string]any{"Ref": name}
				}
			}
		}

		// Intrinsics (Ref, Sub, Select, Tag, ...) carry their own JSON form.
		if _, isRes := iface.(flagrinfra.Resource); !isRes {
			if marshaler, ok := iface.(json.Marshaler); ok {
				data, err := marshaler.MarshalJSON()
				if err == nil {
					var result any
					if json.Unmarshal(data, &result) == nil {
						return result
					}
				}
			}
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		result := make(map[string]any)
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if tag := field.Tag.Get("json"); tag != "" {
				tagName := splitFirst(tag, ',')
				if tagName == "-" {
					continue
				}
				if tagName != "" {
					name = tagName
				}
			}
			fieldVal := v.Field(i)
			if isZero(fieldVal) {
				continue
			}
			// Everything below a declaration is nested.
			serialized := r.serializeValue(fieldVal, true)
			if serialized != nil {
				result[name] = serialized
			}
		}
		if len(result) == 0 {
			return nil
		}
		return result

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return nil
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			result[i] = r.serializeValue(v.Index(i), true)
		}
		return result

	case reflect.Map:
		if v.Len() == 0 {
			return nil
		}
		result := make(map[string]any)
		iter := v.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%v", iter.Key().Interface())
			result[key] = r.serializeValue(iter.Value(), true)
		}
		return result

	case reflect.String:
		s := v.String()
		if s == "" {
			return nil
		}
		return s

	case reflect.Bool:
		return v.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()

	case reflect.Float32, reflect.Float64:
		return v.Float()

	default:
		if v.CanInterface() {
			return v.Interface()
		}
		return nil
	}
}

// resourceSignature creates a lookup key for a declared resource.
// ResourceType plus the JSON form of the struct distinguishes resources of
// the same type with different properties.
func resourceSignature(res flagrinfra.Resource) string {
	data, _ := json.Marshal(res)
	return res.ResourceType() + ":" + string(data)
}

// parameterSignature creates a lookup key for a declared parameter.
func parameterSignature(p intrinsics.Parameter) string {
	data, _ := json.Marshal(p.ToDefinition())
	return string(data)
}

func splitFirst(s string, sep byte) string {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i]
		}
	}
	return s
}

// isZero reports whether a field holds its zero value and should be left
// out of the template. Unset optional numerics and bools must not surface
// as 0/false properties; CloudFormation treats absent and zero differently
// (an ECS service without a load balancer rejects HealthCheckGracePeriodSeconds).
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		if v.CanInterface() {
			if zeroer, ok := v.Interface().(interface{ IsZero() bool }); ok {
				return zeroer.IsZero()
			}
		}
		for i := 0; i < v.NumField(); i++ {
			if !isZero(v.Field(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
