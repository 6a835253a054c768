package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
)

// ----------------------------------------------------------------------------
// Outputs
// ----------------------------------------------------------------------------

// LoadBalancerDNS is where clients reach the public Flagr service.
var LoadBalancerDNS = Output{
	Description: "Public DNS name of the Flagr load balancer",
	Value:       LoadBalancer.DNSName,
}

// DatabaseEndpoint is the RDS endpoint address for operators.
var DatabaseEndpoint = Output{
	Description: "PostgreSQL endpoint address",
	Value:       Database.EndpointAddress,
}

// ClusterName identifies the ECS cluster for CLI operations.
var ClusterName = Output{
	Description: "Name of the ECS cluster",
	Value:       Cluster,
}

// VpcId identifies the VPC for follow-on stacks.
var VpcId = Output{
	Description: "ID of the deployment VPC",
	Value:       Vpc,
	ExportName:  "flagr-vpc-id",
}
