package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/ec2"
	"github.com/openflagr/flagr-infra/resources/ecs"
	"github.com/openflagr/flagr-infra/resources/rds"
)

func TestExtractAll_SimpleResource(t *testing.T) {
	vpc := ec2.VPC{
		CidrBlock:          "10.0.0.0/16",
		EnableDnsSupport:   true,
		EnableDnsHostnames: true,
	}

	reg := New(map[string]any{"Vpc": vpc})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	require.Contains(t, values.Resources, "Vpc")
	props := values.Resources["Vpc"]
	assert.Equal(t, "10.0.0.0/16", props["CidrBlock"])
	assert.Equal(t, true, props["EnableDnsSupport"])
	assert.Equal(t, true, props["EnableDnsHostnames"])
}

func TestExtractAll_NestedResourceBecomesRef(t *testing.T) {
	vpc := ec2.VPC{CidrBlock: "10.0.0.0/16"}
	subnet := ec2.Subnet{
		VpcId:     vpc,
		CidrBlock: "10.0.0.0/24",
	}

	reg := New(map[string]any{
		"Vpc":          vpc,
		"PublicSubnet": subnet,
	})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	props := values.Resources["PublicSubnet"]
	assert.Equal(t, map[string]any{"Ref": "Vpc"}, props["VpcId"])
}

func TestExtractAll_ResourceRefInSlice(t *testing.T) {
	sg := ec2.SecurityGroup{GroupDescription: "database tier"}
	db := rds.DBInstance{
		Engine:            "postgres",
		VPCSecurityGroups: []any{sg},
	}

	reg := New(map[string]any{
		"DatabaseSecurityGroup": sg,
		"Database":              db,
	})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	props := values.Resources["Database"]
	groups := props["VPCSecurityGroups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, map[string]any{"Ref": "DatabaseSecurityGroup"}, groups[0])
}

func TestExtractAll_ParameterBecomesRef(t *testing.T) {
	param := intrinsics.Parameter{
		Type:    "String",
		Default: "flagr",
	}
	db := rds.DBInstance{
		Engine: "postgres",
		DBName: param,
	}

	reg := New(map[string]any{
		"DatabaseName": param,
		"Database":     db,
	})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	require.Contains(t, values.Parameters, "DatabaseName")
	assert.Equal(t, "String", values.Parameters["DatabaseName"]["Type"])
	assert.Equal(t, "flagr", values.Parameters["DatabaseName"]["Default"])

	props := values.Resources["Database"]
	assert.Equal(t, map[string]any{"Ref": "DatabaseName"}, props["DBName"])
}

func TestExtractAll_IntrinsicsPassThrough(t *testing.T) {
	cluster := ecs.Cluster{
		ClusterName: intrinsics.Sub{String: "${AWS::StackName}-cluster"},
	}

	reg := New(map[string]any{"Cluster": cluster})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	props := values.Resources["Cluster"]
	assert.Equal(t, map[string]any{"Fn::Sub": "${AWS::StackName}-cluster"}, props["ClusterName"])
}

func TestExtractAll_ZeroAttrRefPlaceholder(t *testing.T) {
	db := rds.DBInstance{Engine: "postgres"}
	hostVar := ecs.TaskDefinition_KeyValuePair{
		Name:  "DATABASE_HOST",
		Value: db.EndpointAddress,
	}
	task := ecs.TaskDefinition{
		Family: "flagr",
		ContainerDefinitions: []any{
			ecs.TaskDefinition_ContainerDefinition{
				Name:        "flagr",
				Environment: []any{hostVar},
			},
		},
	}

	reg := New(map[string]any{
		"Database":       db,
		"TaskDefinition": task,
	})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	// The zero AttrRef serializes as an empty GetAtt placeholder; the
	// template builder overwrites it with the real reference.
	props := values.Resources["TaskDefinition"]
	containers := props["ContainerDefinitions"].([]any)
	env := containers[0].(map[string]any)["Environment"].([]any)
	value := env[0].(map[string]any)["Value"].(map[string]any)
	assert.Contains(t, value, "Fn::GetAtt")
}

func TestExtractAll_SkipsZeroFields(t *testing.T) {
	vpc := ec2.VPC{CidrBlock: "10.0.0.0/16"}

	reg := New(map[string]any{"Vpc": vpc})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	props := values.Resources["Vpc"]
	assert.NotContains(t, props, "EnableDnsSupport")
	assert.NotContains(t, props, "Tags")
	assert.NotContains(t, props, "InstanceTenancy")
}

func TestExtractAll_SkipsZeroNumericsAndBools(t *testing.T) {
	// Absent and zero are different things to CloudFormation: an ECS
	// service without a load balancer rejects HealthCheckGracePeriodSeconds
	// outright, and unset bools must not surface as explicit false.
	svc := ecs.Service{
		ServiceName:  "flagr",
		DesiredCount: 1,
		LaunchType:   "FARGATE",
	}
	subnet := ec2.Subnet{CidrBlock: "10.0.3.0/24"}
	db := rds.DBInstance{Engine: "postgres"}

	reg := New(map[string]any{
		"FlagrService":  svc,
		"PrivateSubnet": subnet,
		"Database":      db,
	})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	props := values.Resources["FlagrService"]
	assert.NotContains(t, props, "HealthCheckGracePeriodSeconds")
	assert.NotContains(t, props, "EnableECSManagedTags")
	assert.EqualValues(t, 1, props["DesiredCount"])

	assert.NotContains(t, values.Resources["PrivateSubnet"], "MapPublicIpOnLaunch")
	assert.NotContains(t, values.Resources["Database"], "PubliclyAccessible")
}

func TestExtractAll_SkipsAttrRefFields(t *testing.T) {
	db := rds.DBInstance{Engine: "postgres"}

	reg := New(map[string]any{"Database": db})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	// AttrRef fields carry json:"-" and never land in properties
	props := values.Resources["Database"]
	assert.NotContains(t, props, "EndpointAddress")
	assert.NotContains(t, props, "EndpointPort")
}

func TestExtractAll_Outputs(t *testing.T) {
	vpc := ec2.VPC{CidrBlock: "10.0.0.0/16"}
	out := intrinsics.Output{
		Description: "ID of the deployment VPC",
		Value:       vpc,
		ExportName:  "flagr-vpc-id",
	}

	reg := New(map[string]any{
		"Vpc":   vpc,
		"VpcId": out,
	})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	require.Contains(t, values.Outputs, "VpcId")
	props := values.Outputs["VpcId"]
	assert.Equal(t, "ID of the deployment VPC", props["Description"])
	assert.Equal(t, map[string]any{"Ref": "Vpc"}, props["Value"])
	assert.Equal(t, "flagr-vpc-id", props["ExportName"])
}

func TestExtractAll_PropertyBlocksProduceNoEntry(t *testing.T) {
	portMapping := ecs.TaskDefinition_PortMapping{
		ContainerPort: 80,
		HostPort:      80,
		Protocol:      "tcp",
	}

	reg := New(map[string]any{"FlagrPortMapping": portMapping})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	assert.Empty(t, values.Resources)
	assert.Empty(t, values.Parameters)
	assert.Empty(t, values.Outputs)
}

func TestExtractAll_MapValues(t *testing.T) {
	logConfig := ecs.TaskDefinition_LogConfiguration{
		LogDriver: "awslogs",
		Options: map[string]any{
			"awslogs-region":        intrinsics.AWS_REGION,
			"awslogs-stream-prefix": "flagr",
		},
	}
	task := ecs.TaskDefinition{
		Family: "flagr",
		ContainerDefinitions: []any{
			ecs.TaskDefinition_ContainerDefinition{
				Name:             "flagr",
				LogConfiguration: logConfig,
			},
		},
	}

	reg := New(map[string]any{"TaskDefinition": task})
	values, err := reg.ExtractAll()
	require.NoError(t, err)

	props := values.Resources["TaskDefinition"]
	containers := props["ContainerDefinitions"].([]any)
	lc := containers[0].(map[string]any)["LogConfiguration"].(map[string]any)
	opts := lc["Options"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "AWS::Region"}, opts["awslogs-region"])
	assert.Equal(t, "flagr", opts["awslogs-stream-prefix"])
}
