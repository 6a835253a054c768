package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/ecs"
	"github.com/openflagr/flagr-infra/resources/logs"
)

// ----------------------------------------------------------------------------
// ECS Cluster
// ----------------------------------------------------------------------------

// Cluster hosts the Fargate services. No capacity to manage; tasks run
// on Fargate-provisioned compute.
var Cluster = ecs.Cluster{
	ClusterName: Sub{String: "${AWS::StackName}-cluster"},
	ClusterSettings: []any{
		ecs.Cluster_ClusterSettings{Name: "containerInsights", Value: "enabled"},
	},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-cluster"}},
	},
}

// ----------------------------------------------------------------------------
// Logging
// ----------------------------------------------------------------------------

// FlagrLogGroup collects container stdout/stderr from both services.
var FlagrLogGroup = logs.LogGroup{
	LogGroupName:    Sub{String: "/ecs/${AWS::StackName}"},
	RetentionInDays: 30,
}
