package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/ecs"
	"github.com/openflagr/flagr-infra/resources/elasticloadbalancingv2"
)

// ----------------------------------------------------------------------------
// Application Load Balancer
// ----------------------------------------------------------------------------

// LoadBalancer is the internet-facing entry point, spanning both public
// subnets so it stays reachable if one availability zone degrades.
var LoadBalancer = elasticloadbalancingv2.LoadBalancer{
	Scheme:         "internet-facing",
	Type:           "application",
	Subnets:        []any{PublicSubnetA, PublicSubnetB},
	SecurityGroups: []any{ServiceSecurityGroup},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-alb"}},
	},
}

// TargetGroup registers Fargate task IPs and health-checks the Flagr API.
var TargetGroup = elasticloadbalancingv2.TargetGroup{
	Port:                80,
	Protocol:            "HTTP",
	TargetType:          "ip",
	VpcId:               Vpc,
	HealthCheckPath:     "/api/v1/health",
	HealthCheckProtocol: "HTTP",
}

// HTTPListenerAction forwards everything to TargetGroup.
var HTTPListenerAction = elasticloadbalancingv2.Listener_Action{
	Type:           "forward",
	TargetGroupArn: TargetGroup,
}

// HTTPListener accepts plain HTTP on port 80.
var HTTPListener = elasticloadbalancingv2.Listener{
	LoadBalancerArn: LoadBalancer,
	Port:            80,
	Protocol:        "HTTP",
	DefaultActions:  []any{HTTPListenerAction},
}

// ----------------------------------------------------------------------------
// Public Service
// ----------------------------------------------------------------------------

// PublicTargetAttachment binds the Flagr container port to TargetGroup.
var PublicTargetAttachment = ecs.Service_LoadBalancer{
	ContainerName:  "flagr",
	ContainerPort:  80,
	TargetGroupArn: TargetGroup,
}

// PublicFlagrService is the ALB-fronted copy of the workload. It runs
// the same TaskDefinition as FlagrService.
var PublicFlagrService = ecs.Service{
	ServiceName:                   Sub{String: "${AWS::StackName}-flagr-public"},
	Cluster:                       Cluster,
	TaskDefinition:                TaskDefinition,
	DesiredCount:                  1,
	LaunchType:                    "FARGATE",
	NetworkConfiguration:          FlagrNetworkConfig,
	LoadBalancers:                 []any{PublicTargetAttachment},
	HealthCheckGracePeriodSeconds: 60,
}
