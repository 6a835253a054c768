// Security groups. Three tiers: the service group faces the internet on
// HTTP/80, the generic workload group accepts SSH only from the service
// group, and the database group accepts PostgreSQL only from the service
// group.

package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/ec2"
)

// ----------------------------------------------------------------------------
// Service Security Group
// ----------------------------------------------------------------------------

// ServiceHTTPIngress allows HTTP traffic from anywhere. This is the only
// inbound rule on the service group.
var ServiceHTTPIngress = ec2.SecurityGroup_Ingress{
	Description: "Allow HTTP from internet",
	IpProtocol:  "tcp",
	FromPort:    80,
	ToPort:      80,
	CidrIp:      "0.0.0.0/0",
}

// ServiceEgressAll allows all outbound traffic.
var ServiceEgressAll = ec2.SecurityGroup_Egress{
	Description: "Allow all outbound",
	IpProtocol:  "-1",
	CidrIp:      "0.0.0.0/0",
}

// ServiceSecurityGroup is attached to the Flagr tasks and the load
// balancer. Inbound HTTP/80 from anywhere, nothing else.
var ServiceSecurityGroup = ec2.SecurityGroup{
	GroupDescription:     "Flagr service - allows HTTP from internet",
	VpcId:                Vpc,
	SecurityGroupIngress: []any{ServiceHTTPIngress},
	SecurityGroupEgress:  []any{ServiceEgressAll},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-service-sg"}},
	},
}

// ----------------------------------------------------------------------------
// Workload Security Group
// ----------------------------------------------------------------------------

// WorkloadSSHIngress allows SSH only from members of the service group.
// No CIDR-based inbound rule exists on this group.
var WorkloadSSHIngress = ec2.SecurityGroup_Ingress{
	Description:           "Allow SSH from service security group",
	IpProtocol:            "tcp",
	FromPort:              22,
	ToPort:                22,
	SourceSecurityGroupId: ServiceSecurityGroup.GroupId,
}

// WorkloadEgressAll allows all outbound traffic.
var WorkloadEgressAll = ec2.SecurityGroup_Egress{
	Description: "Allow all outbound",
	IpProtocol:  "-1",
	CidrIp:      "0.0.0.0/0",
}

// WorkloadSecurityGroup covers generic EC2 workloads in the VPC that
// operators reach through the service tier.
var WorkloadSecurityGroup = ec2.SecurityGroup{
	GroupDescription:     "Generic workload - allows SSH from service tier only",
	VpcId:                Vpc,
	SecurityGroupIngress: []any{WorkloadSSHIngress},
	SecurityGroupEgress:  []any{WorkloadEgressAll},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-workload-sg"}},
	},
}

// ----------------------------------------------------------------------------
// Database Security Group
// ----------------------------------------------------------------------------

// DatabasePostgresIngress allows PostgreSQL only from the service group.
var DatabasePostgresIngress = ec2.SecurityGroup_Ingress{
	Description:           "Allow PostgreSQL from service security group",
	IpProtocol:            "tcp",
	FromPort:              5432,
	ToPort:                5432,
	SourceSecurityGroupId: ServiceSecurityGroup.GroupId,
}

// DatabaseSecurityGroup keeps the database reachable only from the
// service tier.
var DatabaseSecurityGroup = ec2.SecurityGroup{
	GroupDescription:     "Flagr database - allows PostgreSQL from service tier only",
	VpcId:                Vpc,
	SecurityGroupIngress: []any{DatabasePostgresIngress},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-db-sg"}},
	},
}
