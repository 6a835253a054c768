// Package elasticloadbalancingv2 contains CloudFormation resource types for
// Application Load Balancers.
package elasticloadbalancingv2

import (
	flagrinfra "github.com/openflagr/flagr-infra"
)

// LoadBalancer represents an AWS::ElasticLoadBalancingV2::LoadBalancer resource.
type LoadBalancer struct {
	// Name is the load balancer name.
	Name any
	// Scheme is "internet-facing" or "internal".
	Scheme string
	// Type is "application" or "network".
	Type string
	// Subnets lists the subnets the load balancer spans.
	Subnets []any
	// SecurityGroups lists attached security groups (application type only).
	SecurityGroups []any
	// Tags are key-value pairs to categorize the load balancer.
	Tags []any

	// DNSName is the GetAtt reference to the public DNS name.
	DNSName flagrinfra.AttrRef `json:"-"`
	// CanonicalHostedZoneID is the GetAtt reference to the Route 53 zone ID.
	CanonicalHostedZoneID flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (LoadBalancer) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::LoadBalancer"
}

// TargetGroup represents an AWS::ElasticLoadBalancingV2::TargetGroup resource.
type TargetGroup struct {
	// Name is the target group name.
	Name any
	// Port is the port targets receive traffic on.
	Port int
	// Protocol is the protocol for routing traffic ("HTTP", "HTTPS").
	Protocol string
	// TargetType is "instance", "ip", or "lambda"; Fargate tasks register as "ip".
	TargetType string
	// VpcId is the VPC of the targets.
	VpcId any
	// HealthCheckPath is the ping path for HTTP health checks.
	HealthCheckPath string
	// HealthCheckProtocol is the protocol for health checks.
	HealthCheckProtocol string
	// TargetGroupAttributes tunes deregistration and stickiness.
	TargetGroupAttributes []any
	// Tags are key-value pairs to categorize the target group.
	Tags []any

	// TargetGroupFullName is the GetAtt reference to the full name for metrics.
	TargetGroupFullName flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (TargetGroup) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::TargetGroup"
}

// TargetGroup_TargetGroupAttribute is a key-value attribute entry.
type TargetGroup_TargetGroupAttribute struct {
	Key   string
	Value string
}

// Listener represents an AWS::ElasticLoadBalancingV2::Listener resource.
type Listener struct {
	// LoadBalancerArn is the load balancer the listener belongs to.
	LoadBalancerArn any
	// Port is the port the listener accepts connections on.
	Port int
	// Protocol is "HTTP" or "HTTPS".
	Protocol string
	// DefaultActions is the list of actions for unmatched requests.
	DefaultActions []any
}

// ResourceType returns the CloudFormation type.
func (Listener) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::Listener"
}

// Listener_Action is a listener routing action.
type Listener_Action struct {
	Type           string
	TargetGroupArn any
}
