package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/ecs"
	"github.com/openflagr/flagr-infra/resources/iam"
)

// ----------------------------------------------------------------------------
// Task Execution Role
// ----------------------------------------------------------------------------

// ECSAssumeRoleStatement lets ECS tasks assume the execution role.
var ECSAssumeRoleStatement = PolicyStatement{
	Effect:    "Allow",
	Principal: ServicePrincipal{"ecs-tasks.amazonaws.com"},
	Action:    "sts:AssumeRole",
}

// ECSAssumeRolePolicy is the trust policy for the execution role.
var ECSAssumeRolePolicy = PolicyDocument{
	Version:   "2012-10-17",
	Statement: []any{ECSAssumeRoleStatement},
}

// SecretsAccessStatement grants read access to the database secret so the
// execution role can inject it into containers at start time.
var SecretsAccessStatement = PolicyStatement{
	Effect:   "Allow",
	Action:   "secretsmanager:GetSecretValue",
	Resource: []any{DatabaseSecret},
}

// SecretsAccessPolicy is the inline policy carrying SecretsAccessStatement.
var SecretsAccessPolicy = iam.Role_Policy{
	PolicyName: "db-secret-access",
	PolicyDocument: PolicyDocument{
		Version:   "2012-10-17",
		Statement: []any{SecretsAccessStatement},
	},
}

// TaskExecutionRole pulls the container image, writes logs, and fetches
// the database secret on behalf of the tasks.
var TaskExecutionRole = iam.Role{
	AssumeRolePolicyDocument: ECSAssumeRolePolicy,
	ManagedPolicyArns: []any{
		"arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy",
	},
	Policies: []any{SecretsAccessPolicy},
}

// ----------------------------------------------------------------------------
// Container Definition
// ----------------------------------------------------------------------------

// FlagrPortMapping exposes the Flagr HTTP port.
var FlagrPortMapping = ecs.TaskDefinition_PortMapping{
	ContainerPort: 80,
	HostPort:      80,
	Protocol:      "tcp",
}

// DataVolume is scratch storage for Flagr's working files. An empty host
// source path means Fargate provisions it per task.
var DataVolume = ecs.TaskDefinition_Volume{
	Name: "flagr-data",
	Host: ecs.TaskDefinition_HostVolumeProperties{},
}

// DataMountPoint mounts DataVolume into the container at /data.
var DataMountPoint = ecs.TaskDefinition_MountPoint{
	ContainerPath: "/data",
	SourceVolume:  "flagr-data",
}

// DatabaseHostVar points Flagr at the RDS endpoint.
var DatabaseHostVar = ecs.TaskDefinition_KeyValuePair{
	Name:  "DATABASE_HOST",
	Value: Database.EndpointAddress,
}

// DatabasePortVar carries the RDS endpoint port.
var DatabasePortVar = ecs.TaskDefinition_KeyValuePair{
	Name:  "DATABASE_PORT",
	Value: Database.EndpointPort,
}

// DatabaseNameVar carries the database name parameter through to Flagr.
var DatabaseNameVar = ecs.TaskDefinition_KeyValuePair{
	Name:  "DATABASE_NAME",
	Value: DatabaseName,
}

// DatabaseUserVar matches the username baked into the secret template.
var DatabaseUserVar = ecs.TaskDefinition_KeyValuePair{
	Name:  "DATABASE_USER",
	Value: "flagr",
}

// DatabasePasswordSecret injects the generated password from Secrets
// Manager; the password never appears in the template or task definition.
var DatabasePasswordSecret = ecs.TaskDefinition_Secret{
	Name:      "DATABASE_PASSWORD",
	ValueFrom: Sub{String: "${DatabaseSecret}:password::"},
}

// FlagrLogConfig sends container output to FlagrLogGroup.
var FlagrLogConfig = ecs.TaskDefinition_LogConfiguration{
	LogDriver: "awslogs",
	Options: Json{
		"awslogs-group":         FlagrLogGroup,
		"awslogs-region":        AWS_REGION,
		"awslogs-stream-prefix": "flagr",
	},
}

// FlagrContainer runs the Flagr image, serving HTTP on port 80.
var FlagrContainer = ecs.TaskDefinition_ContainerDefinition{
	Name:         "flagr",
	Image:        "openflagr/flagr:1.1.16",
	Essential:    true,
	PortMappings: []any{FlagrPortMapping},
	Environment: []any{
		DatabaseHostVar,
		DatabasePortVar,
		DatabaseNameVar,
		DatabaseUserVar,
	},
	Secrets:          []any{DatabasePasswordSecret},
	MountPoints:      []any{DataMountPoint},
	LogConfiguration: FlagrLogConfig,
}

// ----------------------------------------------------------------------------
// Task Definition
// ----------------------------------------------------------------------------

// TaskDefinition is shared by the bare service and the load-balanced
// service; both run identical Flagr tasks from the same revision.
var TaskDefinition = ecs.TaskDefinition{
	Family:                  Sub{String: "${AWS::StackName}-flagr"},
	NetworkMode:             "awsvpc",
	RequiresCompatibilities: []any{"FARGATE"},
	Cpu:                     "512",
	Memory:                  "1024",
	ExecutionRoleArn:        TaskExecutionRole.Arn,
	ContainerDefinitions:    []any{FlagrContainer},
	Volumes:                 []any{DataVolume},
}
