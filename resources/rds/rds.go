// Package rds contains CloudFormation resource types for Amazon RDS.
package rds

import (
	flagrinfra "github.com/openflagr/flagr-infra"
)

// DBInstance represents an AWS::RDS::DBInstance resource.
type DBInstance struct {
	// DBInstanceIdentifier is the instance name.
	DBInstanceIdentifier any
	// Engine is the database engine ("postgres", "mysql", ...).
	Engine string
	// EngineVersion pins the engine version.
	EngineVersion string
	// DBInstanceClass is the compute/memory class (e.g. "db.t3.small").
	DBInstanceClass string
	// AllocatedStorage is the storage size in GiB, as a string.
	AllocatedStorage any
	// StorageType is the storage class ("gp2", "gp3", "io1").
	StorageType string
	// DBName is the name of the initial database.
	DBName any
	// MasterUsername is the admin user name.
	MasterUsername any
	// MasterUserPassword is the admin password; use a Secrets Manager
	// dynamic reference, never a literal.
	MasterUserPassword any
	// MultiAZ enables a standby replica in a second availability zone.
	MultiAZ bool
	// BackupRetentionPeriod is the number of days to keep automated backups.
	BackupRetentionPeriod int
	// DBSubnetGroupName places the instance in a subnet group.
	DBSubnetGroupName any
	// VPCSecurityGroups restricts network access to the instance.
	VPCSecurityGroups []any
	// PubliclyAccessible assigns a public address to the instance.
	PubliclyAccessible bool
	// DeletionProtection blocks instance deletion.
	DeletionProtection bool
	// Tags are key-value pairs to categorize the instance.
	Tags []any

	// EndpointAddress is the GetAtt reference to the connection hostname.
	EndpointAddress flagrinfra.AttrRef `json:"-"`
	// EndpointPort is the GetAtt reference to the connection port.
	EndpointPort flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (DBInstance) ResourceType() string { return "AWS::RDS::DBInstance" }

// DBSubnetGroup represents an AWS::RDS::DBSubnetGroup resource.
type DBSubnetGroup struct {
	// DBSubnetGroupName is the subnet group name.
	DBSubnetGroupName any
	// DBSubnetGroupDescription describes the subnet group.
	DBSubnetGroupDescription string
	// SubnetIds lists the subnets the database may occupy.
	SubnetIds []any
	// Tags are key-value pairs to categorize the subnet group.
	Tags []any
}

// ResourceType returns the CloudFormation type.
func (DBSubnetGroup) ResourceType() string { return "AWS::RDS::DBSubnetGroup" }
