// Package iam contains CloudFormation resource types for AWS IAM.
package iam

import (
	flagrinfra "github.com/openflagr/flagr-infra"
)

// Role represents an AWS::IAM::Role resource.
type Role struct {
	// RoleName is the role name; omit to let CloudFormation generate one.
	RoleName any
	// AssumeRolePolicyDocument is the trust policy.
	AssumeRolePolicyDocument any
	// ManagedPolicyArns lists attached managed policies.
	ManagedPolicyArns []any
	// Policies lists inline policies.
	Policies []any
	// Tags are key-value pairs to categorize the role.
	Tags []any

	// Arn is the GetAtt reference to the role ARN.
	Arn flagrinfra.AttrRef `json:"-"`
	// RoleId is the GetAtt reference to the stable role ID.
	RoleId flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (Role) ResourceType() string { return "AWS::IAM::Role" }

// Role_Policy is an inline policy attached to a role.
type Role_Policy struct {
	PolicyName     string
	PolicyDocument any
}
