package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/ecs"
)

// ----------------------------------------------------------------------------
// Internal Service
// ----------------------------------------------------------------------------

// FlagrNetworkConfig places tasks in the private subnets behind the
// service security group. Tasks reach the registry through the NAT
// gateway, so no public IP is assigned.
var FlagrNetworkConfig = ecs.Service_NetworkConfiguration{
	AwsvpcConfiguration: ecs.Service_AwsVpcConfiguration{
		AssignPublicIp: "DISABLED",
		Subnets:        []any{PrivateSubnetA, PrivateSubnetB},
		SecurityGroups: []any{ServiceSecurityGroup},
	},
}

// FlagrService runs a single Flagr task with no load balancer in front;
// it is reachable only from inside the VPC. It shares TaskDefinition
// with PublicFlagrService, so the two are redundant copies of the same
// workload rather than distinct tiers.
var FlagrService = ecs.Service{
	ServiceName:          Sub{String: "${AWS::StackName}-flagr"},
	Cluster:              Cluster,
	TaskDefinition:       TaskDefinition,
	DesiredCount:         1,
	LaunchType:           "FARGATE",
	NetworkConfiguration: FlagrNetworkConfig,
}
