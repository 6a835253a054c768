// Package logs contains CloudFormation resource types for CloudWatch Logs.
package logs

import (
	flagrinfra "github.com/openflagr/flagr-infra"
)

// LogGroup represents an AWS::Logs::LogGroup resource.
type LogGroup struct {
	// LogGroupName is the log group name.
	LogGroupName any
	// RetentionInDays expires log events after the given number of days.
	RetentionInDays int
	// Tags are key-value pairs to categorize the log group.
	Tags []any

	// Arn is the GetAtt reference to the log group ARN.
	Arn flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (LogGroup) ResourceType() string { return "AWS::Logs::LogGroup" }
