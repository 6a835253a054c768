package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/rds"
)

// ----------------------------------------------------------------------------
// Parameters
// ----------------------------------------------------------------------------

// DatabaseName is the initial database created on the instance.
var DatabaseName = Parameter{
	Type:        "String",
	Description: "Name of the Flagr database",
	Default:     "flagr",
}

// ----------------------------------------------------------------------------
// Database
// ----------------------------------------------------------------------------

// DatabaseSubnetGroup spans the private subnets so the instance and its
// standby never get public addresses.
var DatabaseSubnetGroup = rds.DBSubnetGroup{
	DBSubnetGroupDescription: "Subnets for the Flagr database",
	SubnetIds:                []any{PrivateSubnetA, PrivateSubnetB},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-db-subnets"}},
	},
}

// Database is the PostgreSQL instance backing Flagr. Reachable only
// through DatabaseSecurityGroup.
var Database = rds.DBInstance{
	Engine:                "postgres",
	EngineVersion:         "13.3",
	DBInstanceClass:       "db.t3.small",
	AllocatedStorage:      "20",
	StorageType:           "gp2",
	DBName:                DatabaseName,
	MasterUsername:        Sub{String: "{{resolve:secretsmanager:${DatabaseSecret}:SecretString:username}}"},
	MasterUserPassword:    Sub{String: "{{resolve:secretsmanager:${DatabaseSecret}:SecretString:password}}"},
	MultiAZ:               true,
	BackupRetentionPeriod: 7,
	DBSubnetGroupName:     DatabaseSubnetGroup,
	VPCSecurityGroups:     []any{DatabaseSecurityGroup},
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-db"}},
	},
}
