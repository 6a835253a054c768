// Package stack declares the Flagr deployment topology as package-level
// resource declarations.
//
// Network Topology:
//
//	VPC (10.0.0.0/16)
//	|
//	+-- Public Subnet AZ-a (10.0.0.0/24)
//	|   +-- NAT Gateway -> Private Subnet routing
//	|
//	+-- Public Subnet AZ-b (10.0.1.0/24)
//	|
//	+-- Private Subnet AZ-a (10.0.10.0/24)
//	|
//	+-- Private Subnet AZ-b (10.0.11.0/24)
//
// References between declarations are direct Go variable references or
// attribute field access; the build turns them into Ref/Fn::GetAtt.
package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/ec2"
)

// ----------------------------------------------------------------------------
// VPC
// ----------------------------------------------------------------------------

// Vpc is the Virtual Private Cloud everything runs in, with DNS enabled
// so the service can resolve the RDS endpoint.
var Vpc = ec2.VPC{
	CidrBlock:          "10.0.0.0/16",
	EnableDnsHostnames: true,
	EnableDnsSupport:   true,
	InstanceTenancy:    "default",
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-vpc"}},
	},
}

// ----------------------------------------------------------------------------
// Internet Gateway
// ----------------------------------------------------------------------------

// InternetGateway provides internet access for the public subnets.
var InternetGateway = ec2.InternetGateway{
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-igw"}},
	},
}

// GatewayAttachment attaches the Internet Gateway to the VPC.
var GatewayAttachment = ec2.VPCGatewayAttachment{
	InternetGatewayId: InternetGateway,
	VpcId:             Vpc,
}

// ----------------------------------------------------------------------------
// Subnets - two availability zones, public and private in each
// ----------------------------------------------------------------------------

// PublicSubnetA is the public subnet in the first availability zone.
// The load balancer and NAT gateway live here.
var PublicSubnetA = ec2.Subnet{
	VpcId:               Vpc,
	CidrBlock:           "10.0.0.0/24",
	AvailabilityZone:    Select{Index: 0, List: GetAZs{}},
	MapPublicIpOnLaunch: true,
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-public-a"}},
	},
}

// PublicSubnetB is the public subnet in the second availability zone.
var PublicSubnetB = ec2.Subnet{
	VpcId:               Vpc,
	CidrBlock:           "10.0.1.0/24",
	AvailabilityZone:    Select{Index: 1, List: GetAZs{}},
	MapPublicIpOnLaunch: true,
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-public-b"}},
	},
}

// PrivateSubnetA is the private subnet in the first availability zone.
// Tasks and the database get no public IPs; egress goes through the NAT.
var PrivateSubnetA = ec2.Subnet{
	VpcId:            Vpc,
	CidrBlock:        "10.0.10.0/24",
	AvailabilityZone: Select{Index: 0, List: GetAZs{}},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-private-a"}},
	},
}

// PrivateSubnetB is the private subnet in the second availability zone.
var PrivateSubnetB = ec2.Subnet{
	VpcId:            Vpc,
	CidrBlock:        "10.0.11.0/24",
	AvailabilityZone: Select{Index: 1, List: GetAZs{}},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-private-b"}},
	},
}

// ----------------------------------------------------------------------------
// NAT Gateway
// ----------------------------------------------------------------------------

// NatGatewayEIP is the Elastic IP for the NAT Gateway.
var NatGatewayEIP = ec2.EIP{
	Domain: "vpc",
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-nat-eip"}},
	},
}

// NatGateway gives the private subnets outbound internet access, so tasks
// can pull the Flagr image.
var NatGateway = ec2.NatGateway{
	AllocationId: NatGatewayEIP.AllocationId,
	SubnetId:     PublicSubnetA,
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-nat"}},
	},
}

// ----------------------------------------------------------------------------
// Routing - public
// ----------------------------------------------------------------------------

// PublicRouteTable is the route table for the public subnets.
var PublicRouteTable = ec2.RouteTable{
	VpcId: Vpc,
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-public-rt"}},
	},
}

// PublicRoute sends internet traffic through the Internet Gateway.
var PublicRoute = ec2.Route{
	RouteTableId:         PublicRouteTable,
	DestinationCidrBlock: "0.0.0.0/0",
	GatewayId:            InternetGateway,
}

// PublicSubnetARouteTableAssociation puts PublicSubnetA on the public route table.
var PublicSubnetARouteTableAssociation = ec2.SubnetRouteTableAssociation{
	SubnetId:     PublicSubnetA,
	RouteTableId: PublicRouteTable,
}

// PublicSubnetBRouteTableAssociation puts PublicSubnetB on the public route table.
var PublicSubnetBRouteTableAssociation = ec2.SubnetRouteTableAssociation{
	SubnetId:     PublicSubnetB,
	RouteTableId: PublicRouteTable,
}

// ----------------------------------------------------------------------------
// Routing - private
// ----------------------------------------------------------------------------

// PrivateRouteTable is the route table for the private subnets.
var PrivateRouteTable = ec2.RouteTable{
	VpcId: Vpc,
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-private-rt"}},
	},
}

// PrivateRoute sends internet traffic through the NAT Gateway.
var PrivateRoute = ec2.Route{
	RouteTableId:         PrivateRouteTable,
	DestinationCidrBlock: "0.0.0.0/0",
	NatGatewayId:         NatGateway,
}

// PrivateSubnetARouteTableAssociation puts PrivateSubnetA on the private route table.
var PrivateSubnetARouteTableAssociation = ec2.SubnetRouteTableAssociation{
	SubnetId:     PrivateSubnetA,
	RouteTableId: PrivateRouteTable,
}

// PrivateSubnetBRouteTableAssociation puts PrivateSubnetB on the private route table.
var PrivateSubnetBRouteTableAssociation = ec2.SubnetRouteTableAssociation{
	SubnetId:     PrivateSubnetB,
	RouteTableId: PrivateRouteTable,
}
