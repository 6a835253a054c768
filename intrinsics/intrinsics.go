// Package intrinsics provides CloudFormation intrinsic functions.
//
// Each type marshals to its CloudFormation JSON form:
//
//	Ref{"Vpc"}                      → {"Ref": "Vpc"}
//	Sub{String: "${AWS::Region}-x"} → {"Fn::Sub": "${AWS::Region}-x"}
//	Select{Index: 0, List: GetAZs{}} → {"Fn::Select": [0, {"Fn::GetAZs": ""}]}
//
// Pseudo-parameters (AWS_REGION, AWS_STACK_NAME, ...) are declared in
// pseudo.go.
package intrinsics

import (
	"encoding/json"
)

// Ref represents a CloudFormation Ref intrinsic function.
//
// Prefer direct variable references for resources declared in the stack
// package; Ref is still needed for pseudo-parameters and rare cases the
// discoverer cannot see.
type Ref struct {
	Ref string
}

// MarshalJSON serializes Ref to {"Ref": name}.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": r.Ref})
}

// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
//
// Prefer resource attribute fields (e.g. TaskExecutionRole.Arn) over
// explicit GetAtt literals.
type GetAtt struct {
	Resource  string
	Attribute string
}

// MarshalJSON serializes GetAtt to {"Fn::GetAtt": [resource, attribute]}.
func (g GetAtt) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {g.Resource, g.Attribute},
	})
}

// Sub represents a CloudFormation Fn::Sub intrinsic function.
type Sub struct {
	String string
}

// MarshalJSON serializes Sub to {"Fn::Sub": string}.
func (s Sub) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Fn::Sub": s.String})
}

// SubWithMap is Fn::Sub with a variable map.
type SubWithMap struct {
	String    string
	Variables map[string]any
}

// MarshalJSON serializes SubWithMap to {"Fn::Sub": [string, variables]}.
func (s SubWithMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Sub": {s.String, s.Variables},
	})
}

// Join represents a CloudFormation Fn::Join intrinsic function.
type Join struct {
	Delimiter string
	Values    []any
}

// MarshalJSON serializes Join to {"Fn::Join": [delimiter, values]}.
func (j Join) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Join": {j.Delimiter, j.Values},
	})
}

// Select represents a CloudFormation Fn::Select intrinsic function.
type Select struct {
	Index int
	List  any
}

// MarshalJSON serializes Select to {"Fn::Select": [index, list]}.
func (s Select) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Select": {s.Index, s.List},
	})
}

// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
// The zero value selects the availability zones of the current region.
type GetAZs struct {
	Region any
}

// MarshalJSON serializes GetAZs to {"Fn::GetAZs": region}.
func (g GetAZs) MarshalJSON() ([]byte, error) {
	region := g.Region
	if region == nil {
		region = ""
	}
	return json.Marshal(map[string]any{"Fn::GetAZs": region})
}

// Split represents a CloudFormation Fn::Split intrinsic function.
type Split struct {
	Delimiter string
	Source    any
}

// MarshalJSON serializes Split to {"Fn::Split": [delimiter, source]}.
func (s Split) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Split": {s.Delimiter, s.Source},
	})
}

// Base64 represents a CloudFormation Fn::Base64 intrinsic function.
type Base64 struct {
	Value any
}

// MarshalJSON serializes Base64 to {"Fn::Base64": value}.
func (b Base64) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"Fn::Base64": b.Value})
}

// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
type ImportValue struct {
	ExportName any
}

// MarshalJSON serializes ImportValue to {"Fn::ImportValue": name}.
func (i ImportValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"Fn::ImportValue": i.ExportName})
}

// Cidr represents a CloudFormation Fn::Cidr intrinsic function.
type Cidr struct {
	IPBlock  any
	Count    any
	CidrBits any
}

// MarshalJSON serializes Cidr to {"Fn::Cidr": [ipBlock, count, cidrBits]}.
func (c Cidr) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{
		"Fn::Cidr": {c.IPBlock, c.Count, c.CidrBits},
	})
}

// Tag represents a CloudFormation resource tag.
type Tag struct {
	Key   string
	Value any
}

// MarshalJSON serializes Tag to {"Key": key, "Value": value}.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"Key":   t.Key,
		"Value": t.Value,
	})
}

// Output declares a CloudFormation stack output.
type Output struct {
	// Description is optional documentation for the output
	Description string
	// Value is the output value (intrinsics and attribute refs allowed)
	Value any
	// ExportName makes the output importable by other stacks
	ExportName string
}

// Param creates a Ref for a CloudFormation parameter.
func Param(name string) Ref {
	return Ref{name}
}

// Parameter defines a CloudFormation template parameter with full metadata.
// When used as a value in resource properties, it serializes to
// {"Ref": "ParameterName"}.
type Parameter struct {
	// Type is the CloudFormation parameter type (String, Number, ...)
	Type string
	// Description is optional documentation for the parameter
	Description string
	// Default is the default value if none is provided
	Default any
	// AllowedValues restricts the parameter to specific values
	AllowedValues []any
	// NoEcho masks the parameter value in console/logs
	NoEcho bool

	// name is set during discovery to enable proper Ref serialization
	name string
}

// SetName sets the parameter name for Ref serialization.
// This is called by the template builder after discovery.
func (p *Parameter) SetName(name string) {
	p.name = name
}

// Name returns the parameter name.
func (p Parameter) Name() string {
	return p.name
}

// MarshalJSON serializes Parameter as a CloudFormation Ref when used as a
// value.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": p.name})
}

// ToDefinition returns the parameter as a map suitable for the Parameters
// section.
func (p Parameter) ToDefinition() map[string]any {
	def := map[string]any{
		"Type": p.Type,
	}
	if p.Description != "" {
		def["Description"] = p.Description
	}
	if p.Default != nil {
		def["Default"] = p.Default
	}
	if len(p.AllowedValues) > 0 {
		def["AllowedValues"] = p.AllowedValues
	}
	if p.NoEcho {
		def["NoEcho"] = true
	}
	return def
}
