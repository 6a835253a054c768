package ec2

import (
	flagrinfra "github.com/openflagr/flagr-infra"
)

// SecurityGroup represents an AWS::EC2::SecurityGroup resource.
//
// Rules are additive and stateful: return traffic for permitted connections
// is allowed automatically.
type SecurityGroup struct {
	// GroupDescription describes the group (required by CloudFormation).
	GroupDescription string
	// GroupName is the group name; omit to let CloudFormation generate one.
	GroupName any
	// VpcId is the VPC the group belongs to.
	VpcId any
	// SecurityGroupIngress lists inbound rules.
	SecurityGroupIngress []any
	// SecurityGroupEgress lists outbound rules.
	SecurityGroupEgress []any
	// Tags are key-value pairs to categorize the group.
	Tags []any

	// GroupId is the GetAtt reference to the security group ID.
	GroupId flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (SecurityGroup) ResourceType() string { return "AWS::EC2::SecurityGroup" }

// SecurityGroup_Ingress is an inbound rule.
type SecurityGroup_Ingress struct {
	Description           string
	IpProtocol            string
	FromPort              int
	ToPort                int
	CidrIp                string
	SourceSecurityGroupId any
}

// SecurityGroup_Egress is an outbound rule.
type SecurityGroup_Egress struct {
	Description string
	IpProtocol  string
	FromPort    int
	ToPort      int
	CidrIp      string
}
