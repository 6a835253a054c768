// Package ec2 contains CloudFormation resource types for Amazon EC2
// networking: VPC, subnets, gateways, routing, and security groups.
package ec2

import (
	flagrinfra "github.com/openflagr/flagr-infra"
)

// VPC represents an AWS::EC2::VPC resource.
type VPC struct {
	// CidrBlock is the primary IPv4 CIDR block for the VPC.
	CidrBlock any
	// EnableDnsHostnames indicates whether instances get DNS hostnames.
	EnableDnsHostnames bool
	// EnableDnsSupport indicates whether DNS resolution is supported.
	EnableDnsSupport bool
	// InstanceTenancy is the tenancy option for instances (default, dedicated, host).
	InstanceTenancy string
	// Tags are key-value pairs to categorize the VPC.
	Tags []any

	// DefaultSecurityGroup is the GetAtt reference to the VPC's default security group.
	DefaultSecurityGroup flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (VPC) ResourceType() string { return "AWS::EC2::VPC" }

// InternetGateway represents an AWS::EC2::InternetGateway resource.
type InternetGateway struct {
	// Tags are key-value pairs to categorize the gateway.
	Tags []any
}

// ResourceType returns the CloudFormation type.
func (InternetGateway) ResourceType() string { return "AWS::EC2::InternetGateway" }

// VPCGatewayAttachment represents an AWS::EC2::VPCGatewayAttachment resource.
type VPCGatewayAttachment struct {
	// InternetGatewayId is the internet gateway to attach.
	InternetGatewayId any
	// VpcId is the VPC to attach the gateway to.
	VpcId any
	// VpnGatewayId is the virtual private gateway (mutually exclusive with InternetGatewayId).
	VpnGatewayId any
}

// ResourceType returns the CloudFormation type.
func (VPCGatewayAttachment) ResourceType() string { return "AWS::EC2::VPCGatewayAttachment" }

// Subnet represents an AWS::EC2::Subnet resource.
type Subnet struct {
	// VpcId is the VPC the subnet belongs to.
	VpcId any
	// CidrBlock is the IPv4 CIDR block assigned to the subnet.
	CidrBlock any
	// AvailabilityZone places the subnet in a specific zone.
	AvailabilityZone any
	// MapPublicIpOnLaunch assigns public IPs to instances launched here.
	MapPublicIpOnLaunch bool
	// Tags are key-value pairs to categorize the subnet.
	Tags []any
}

// ResourceType returns the CloudFormation type.
func (Subnet) ResourceType() string { return "AWS::EC2::Subnet" }

// EIP represents an AWS::EC2::EIP resource.
type EIP struct {
	// Domain indicates whether the address is for use with a VPC ("vpc").
	Domain string
	// Tags are key-value pairs to categorize the address.
	Tags []any

	// AllocationId is the GetAtt reference to the allocation ID.
	AllocationId flagrinfra.AttrRef `json:"-"`
	// PublicIp is the GetAtt reference to the public IP address.
	PublicIp flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (EIP) ResourceType() string { return "AWS::EC2::EIP" }

// NatGateway represents an AWS::EC2::NatGateway resource.
type NatGateway struct {
	// AllocationId is the Elastic IP allocation for a public NAT gateway.
	AllocationId any
	// SubnetId is the subnet the NAT gateway lives in.
	SubnetId any
	// ConnectivityType is "public" or "private".
	ConnectivityType string
	// Tags are key-value pairs to categorize the gateway.
	Tags []any
}

// ResourceType returns the CloudFormation type.
func (NatGateway) ResourceType() string { return "AWS::EC2::NatGateway" }

// RouteTable represents an AWS::EC2::RouteTable resource.
type RouteTable struct {
	// VpcId is the VPC the route table belongs to.
	VpcId any
	// Tags are key-value pairs to categorize the route table.
	Tags []any
}

// ResourceType returns the CloudFormation type.
func (RouteTable) ResourceType() string { return "AWS::EC2::RouteTable" }

// Route represents an AWS::EC2::Route resource.
type Route struct {
	// RouteTableId is the route table the route is added to.
	RouteTableId any
	// DestinationCidrBlock is the IPv4 destination to match.
	DestinationCidrBlock any
	// GatewayId routes matching traffic through an internet gateway.
	GatewayId any
	// NatGatewayId routes matching traffic through a NAT gateway.
	NatGatewayId any
}

// ResourceType returns the CloudFormation type.
func (Route) ResourceType() string { return "AWS::EC2::Route" }

// SubnetRouteTableAssociation represents an AWS::EC2::SubnetRouteTableAssociation resource.
type SubnetRouteTableAssociation struct {
	// SubnetId is the subnet to associate.
	SubnetId any
	// RouteTableId is the route table to associate with.
	RouteTableId any
}

// ResourceType returns the CloudFormation type.
func (SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}
