// Package flagrinfra declares the Flagr deployment topology as Go resource
// declarations and provides the types shared by the synthesis pipeline.
//
// Infrastructure is declared as package-level struct vars in the stack
// package:
//
//	var Vpc = ec2.VPC{
//	    CidrBlock: "10.0.0.0/16",
//	}
//
//	var ServiceSecurityGroup = ec2.SecurityGroup{
//	    VpcId: Vpc,  // direct reference, becomes {"Ref": "Vpc"}
//	}
//
// The flagr-infra CLI discovers these declarations via AST parsing and
// generates a CloudFormation template.
package flagrinfra

import (
	"encoding/json"
)

// Resource represents a CloudFormation resource.
// All resource types (ec2.VPC, ecs.Service, rds.DBInstance, ...) implement
// this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::EC2::VPC")
	ResourceType() string
}

// AttrRef represents a GetAtt reference to a resource attribute.
// Resource types have AttrRef fields for each supported attribute.
//
// Example:
//
//	var Db = rds.DBInstance{...}
//	var HostVar = ecs.TaskDefinition_KeyValuePair{
//	    Name:  "DATABASE_HOST",
//	    Value: Db.EndpointAddress,
//	}
//
// When serialized to CloudFormation JSON, AttrRef becomes:
//
//	{"Fn::GetAtt": ["Db", "Endpoint.Address"]}
type AttrRef struct {
	// Resource is the logical name of the referenced resource
	Resource string
	// Attribute is the attribute name (e.g., "GroupId", "Endpoint.Address")
	Attribute string
}

// MarshalJSON serializes AttrRef to CloudFormation GetAtt syntax.
func (a AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {a.Resource, a.Attribute},
	})
}

// IsZero returns true if the AttrRef has not been populated.
func (a AttrRef) IsZero() bool {
	return a.Resource == "" && a.Attribute == ""
}

// AttrRefUsage records a Var.Attr field access found during discovery,
// e.g. TaskExecutionRole.Arn used in the ExecutionRoleArn field.
type AttrRefUsage struct {
	// ResourceName is the logical name of the referenced resource
	ResourceName string
	// Attribute is the Go attribute field name (e.g., "Arn", "GroupId")
	Attribute string
	// FieldPath is the dotted property path where the reference appeared
	FieldPath string
}

// DiscoveredResource represents a resource found by AST parsing.
type DiscoveredResource struct {
	// Name is the variable name (becomes CloudFormation logical ID)
	Name string
	// Type is the Go type (e.g., "ec2.VPC", "ecs.Service")
	Type string
	// Package is the package name containing the declaration
	Package string
	// File is the source file path
	File string
	// Line is the line number of the declaration
	Line int
	// Dependencies are logical names of referenced declarations
	Dependencies []string
	// AttrRefUsages are Var.Attr accesses found in the declaration
	AttrRefUsages []AttrRefUsage
}

// DiscoveredParameter is a template parameter found by AST parsing.
type DiscoveredParameter struct {
	Name string
	File string
	Line int
}

// DiscoveredOutput is a template output found by AST parsing.
type DiscoveredOutput struct {
	Name string
	File string
	Line int
	// AttrRefUsages are Var.Attr accesses found in the output value
	AttrRefUsages []AttrRefUsage
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type       string         `json:"Type" yaml:"Type"`
	Properties map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn  []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type          string `json:"Type" yaml:"Type"`
	Description   string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default       any    `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues []any  `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
	NoEcho        bool   `json:"NoEcho,omitempty" yaml:"NoEcho,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any    `json:"Value" yaml:"Value"`
	Export      *struct {
		Name string `json:"Name" yaml:"Name"`
	} `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// BuildResult is the JSON output from `flagr-infra build`.
type BuildResult struct {
	Success   bool     `json:"success"`
	Template  Template `json:"template,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// LintResult is the JSON output from `flagr-infra lint`.
type LintResult struct {
	Success bool        `json:"success"`
	Issues  []LintIssue `json:"issues,omitempty"`
}

// LintIssue is a single linting issue.
type LintIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Rule     string `json:"rule"`
}

// ValidateResult is the JSON output from `flagr-infra validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ListResult is the JSON output from `flagr-infra list`.
type ListResult struct {
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Name string `json:"name"`
	Type string `json:"type"`
	File string `json:"file"`
	Line int    `json:"line"`
}
