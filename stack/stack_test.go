package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flagrinfra "github.com/openflagr/flagr-infra"
	"github.com/openflagr/flagr-infra/internal/synth"
)

// buildTemplate runs the full pipeline over this package's source.
func buildTemplate(t *testing.T) *flagrinfra.Template {
	t.Helper()

	result, err := synth.Synthesize(synth.Options{
		Packages:     []string{"."},
		Declarations: Declarations(),
		Description:  Description,
	})
	require.NoError(t, err)
	return result.Template
}

func props(t *testing.T, tmpl *flagrinfra.Template, name string) map[string]any {
	t.Helper()
	res, ok := tmpl.Resources[name]
	require.True(t, ok, "resource %s not in template", name)
	return res.Properties
}

func getAtt(resource, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{resource, attribute}}
}

func ref(name string) map[string]any {
	return map[string]any{"Ref": name}
}

func TestStack_DeclarationsMatchDiscovery(t *testing.T) {
	result, err := synth.Synthesize(synth.Options{
		Packages:     []string{"."},
		Declarations: Declarations(),
		Description:  Description,
	})
	require.NoError(t, err)

	for name := range result.Discover.Resources {
		_, ok := Declarations()[name]
		assert.True(t, ok, "discovered resource %s missing from Declarations()", name)
	}
	for name := range result.Discover.Parameters {
		_, ok := Declarations()[name]
		assert.True(t, ok, "discovered parameter %s missing from Declarations()", name)
	}
	for name := range result.Discover.Outputs {
		_, ok := Declarations()[name]
		assert.True(t, ok, "discovered output %s missing from Declarations()", name)
	}
}

func TestStack_TwoAvailabilityZones(t *testing.T) {
	tmpl := buildTemplate(t)

	subnets := map[string]float64{
		"PublicSubnetA":  0,
		"PublicSubnetB":  1,
		"PrivateSubnetA": 0,
		"PrivateSubnetB": 1,
	}

	for name, index := range subnets {
		p := props(t, tmpl, name)
		az, ok := p["AvailabilityZone"].(map[string]any)
		require.True(t, ok, "%s has no AvailabilityZone selection", name)
		sel, ok := az["Fn::Select"].([]any)
		require.True(t, ok, "%s AvailabilityZone is not Fn::Select", name)
		assert.EqualValues(t, index, sel[0], "%s picks the wrong zone", name)
	}
}

func TestStack_PublicSubnetsRouteThroughInternetGateway(t *testing.T) {
	tmpl := buildTemplate(t)

	route := props(t, tmpl, "PublicRoute")
	assert.Equal(t, "0.0.0.0/0", route["DestinationCidrBlock"])
	assert.Equal(t, ref("InternetGateway"), route["GatewayId"])

	for _, assoc := range []string{"PublicSubnetARouteTableAssociation", "PublicSubnetBRouteTableAssociation"} {
		p := props(t, tmpl, assoc)
		assert.Equal(t, ref("PublicRouteTable"), p["RouteTableId"])
	}
}

func TestStack_PrivateSubnetsRouteThroughNat(t *testing.T) {
	tmpl := buildTemplate(t)

	route := props(t, tmpl, "PrivateRoute")
	assert.Equal(t, "0.0.0.0/0", route["DestinationCidrBlock"])
	assert.Equal(t, ref("NatGateway"), route["NatGatewayId"])

	nat := props(t, tmpl, "NatGateway")
	assert.Equal(t, getAtt("NatGatewayEIP", "AllocationId"), nat["AllocationId"])
	assert.Equal(t, ref("PublicSubnetA"), nat["SubnetId"])
}

func TestStack_ServiceSecurityGroupAllowsOnlyHTTP(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "ServiceSecurityGroup")
	ingress, ok := p["SecurityGroupIngress"].([]any)
	require.True(t, ok)
	require.Len(t, ingress, 1, "service group must have exactly one inbound rule")

	rule := ingress[0].(map[string]any)
	assert.Equal(t, "tcp", rule["IpProtocol"])
	assert.EqualValues(t, 80, rule["FromPort"])
	assert.EqualValues(t, 80, rule["ToPort"])
	assert.Equal(t, "0.0.0.0/0", rule["CidrIp"])
	assert.NotContains(t, rule, "SourceSecurityGroupId")
}

func TestStack_WorkloadSecurityGroupAllowsSSHFromServiceOnly(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "WorkloadSecurityGroup")
	ingress, ok := p["SecurityGroupIngress"].([]any)
	require.True(t, ok)
	require.Len(t, ingress, 1, "workload group must have exactly one inbound rule")

	rule := ingress[0].(map[string]any)
	assert.Equal(t, "tcp", rule["IpProtocol"])
	assert.EqualValues(t, 22, rule["FromPort"])
	assert.EqualValues(t, 22, rule["ToPort"])
	assert.Equal(t, getAtt("ServiceSecurityGroup", "GroupId"), rule["SourceSecurityGroupId"])
	assert.NotContains(t, rule, "CidrIp", "SSH must not be open to any CIDR range")
}

func TestStack_DatabaseReachableOnlyFromServiceTier(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "DatabaseSecurityGroup")
	ingress, ok := p["SecurityGroupIngress"].([]any)
	require.True(t, ok)
	require.Len(t, ingress, 1)

	rule := ingress[0].(map[string]any)
	assert.Equal(t, "tcp", rule["IpProtocol"])
	assert.EqualValues(t, 5432, rule["FromPort"])
	assert.EqualValues(t, 5432, rule["ToPort"])
	assert.Equal(t, getAtt("ServiceSecurityGroup", "GroupId"), rule["SourceSecurityGroupId"])
	assert.NotContains(t, rule, "CidrIp")

	db := props(t, tmpl, "Database")
	groups := db["VPCSecurityGroups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, ref("DatabaseSecurityGroup"), groups[0])
}

func TestStack_DatabaseConfiguration(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "Database")
	assert.Equal(t, "postgres", p["Engine"])
	assert.Equal(t, "13.3", p["EngineVersion"])
	assert.Equal(t, true, p["MultiAZ"])
	assert.Equal(t, "20", p["AllocatedStorage"])
	assert.Equal(t, "gp2", p["StorageType"])
	assert.EqualValues(t, 7, p["BackupRetentionPeriod"])
	assert.Equal(t, ref("DatabaseName"), p["DBName"])
	assert.Equal(t, ref("DatabaseSubnetGroup"), p["DBSubnetGroupName"])

	subnetGroup := props(t, tmpl, "DatabaseSubnetGroup")
	ids := subnetGroup["SubnetIds"].([]any)
	assert.ElementsMatch(t, []any{ref("PrivateSubnetA"), ref("PrivateSubnetB")}, ids)
}

func TestStack_DatabaseCredentialsComeFromSecretsManager(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "Database")
	user := p["MasterUsername"].(map[string]any)
	pass := p["MasterUserPassword"].(map[string]any)
	assert.Contains(t, user["Fn::Sub"], "resolve:secretsmanager")
	assert.Contains(t, pass["Fn::Sub"], "resolve:secretsmanager")

	secret := props(t, tmpl, "DatabaseSecret")
	gen := secret["GenerateSecretString"].(map[string]any)
	assert.Equal(t, "password", gen["GenerateStringKey"])
	assert.EqualValues(t, 32, gen["PasswordLength"])
}

func TestStack_TaskDefinitionShape(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "TaskDefinition")
	assert.Equal(t, "512", p["Cpu"])
	assert.Equal(t, "1024", p["Memory"])
	assert.Equal(t, "awsvpc", p["NetworkMode"])
	assert.Equal(t, []any{"FARGATE"}, p["RequiresCompatibilities"])
	assert.Equal(t, getAtt("TaskExecutionRole", "Arn"), p["ExecutionRoleArn"])

	containers := p["ContainerDefinitions"].([]any)
	require.Len(t, containers, 1, "the task runs a single container")

	container := containers[0].(map[string]any)
	assert.Equal(t, "flagr", container["Name"])

	ports := container["PortMappings"].([]any)
	require.Len(t, ports, 1)
	mapping := ports[0].(map[string]any)
	assert.EqualValues(t, 80, mapping["ContainerPort"])

	mounts := container["MountPoints"].([]any)
	require.Len(t, mounts, 1)
	mount := mounts[0].(map[string]any)
	assert.Equal(t, "/data", mount["ContainerPath"])
	assert.Equal(t, "flagr-data", mount["SourceVolume"])

	volumes := p["Volumes"].([]any)
	require.Len(t, volumes, 1)
	assert.Equal(t, "flagr-data", volumes[0].(map[string]any)["Name"])
}

func TestStack_ContainerGetsDatabaseEndpoint(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "TaskDefinition")
	containers := p["ContainerDefinitions"].([]any)
	env := containers[0].(map[string]any)["Environment"].([]any)
	require.Len(t, env, 4)

	byName := map[string]any{}
	for _, e := range env {
		entry := e.(map[string]any)
		byName[entry["Name"].(string)] = entry["Value"]
	}

	assert.Equal(t, getAtt("Database", "Endpoint.Address"), byName["DATABASE_HOST"])
	assert.Equal(t, getAtt("Database", "Endpoint.Port"), byName["DATABASE_PORT"])
	assert.Equal(t, ref("DatabaseName"), byName["DATABASE_NAME"])
	assert.Equal(t, "flagr", byName["DATABASE_USER"])
}

func TestStack_PasswordInjectedAsSecretNotEnvVar(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "TaskDefinition")
	containers := p["ContainerDefinitions"].([]any)
	container := containers[0].(map[string]any)

	for _, e := range container["Environment"].([]any) {
		entry := e.(map[string]any)
		assert.NotEqual(t, "DATABASE_PASSWORD", entry["Name"],
			"password must not travel through plain environment")
	}

	secrets := container["Secrets"].([]any)
	require.Len(t, secrets, 1)
	secret := secrets[0].(map[string]any)
	assert.Equal(t, "DATABASE_PASSWORD", secret["Name"])
	valueFrom := secret["ValueFrom"].(map[string]any)
	assert.Contains(t, valueFrom["Fn::Sub"], "${DatabaseSecret}")
}

func TestStack_ExecutionRoleCanReadSecret(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "TaskExecutionRole")
	managed := p["ManagedPolicyArns"].([]any)
	assert.Contains(t, managed, "arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy")

	policies := p["Policies"].([]any)
	require.Len(t, policies, 1)
	policy := policies[0].(map[string]any)
	doc := policy["PolicyDocument"].(map[string]any)
	statements := doc["Statement"].([]any)
	require.Len(t, statements, 1)
	stmt := statements[0].(map[string]any)
	assert.Equal(t, "secretsmanager:GetSecretValue", stmt["Action"])
	assert.Equal(t, []any{ref("DatabaseSecret")}, stmt["Resource"])
}

func TestStack_BothServicesShareTaskDefinition(t *testing.T) {
	tmpl := buildTemplate(t)

	internal := props(t, tmpl, "FlagrService")
	public := props(t, tmpl, "PublicFlagrService")

	assert.Equal(t, ref("TaskDefinition"), internal["TaskDefinition"])
	assert.Equal(t, ref("TaskDefinition"), public["TaskDefinition"])
	assert.Equal(t, internal["TaskDefinition"], public["TaskDefinition"],
		"both services must run the same task definition revision")
}

func TestStack_InternalServiceHasNoLoadBalancer(t *testing.T) {
	tmpl := buildTemplate(t)

	p := props(t, tmpl, "FlagrService")
	assert.EqualValues(t, 1, p["DesiredCount"])
	assert.Equal(t, "FARGATE", p["LaunchType"])
	assert.NotContains(t, p, "LoadBalancers")

	// The ECS API rejects a health check grace period on services without
	// load balancers; the unset field must stay out of the template.
	assert.NotContains(t, p, "HealthCheckGracePeriodSeconds")
	assert.NotContains(t, p, "EnableECSManagedTags")

	net := p["NetworkConfiguration"].(map[string]any)
	vpcConf := net["AwsvpcConfiguration"].(map[string]any)
	assert.Equal(t, "DISABLED", vpcConf["AssignPublicIp"])
	assert.ElementsMatch(t, []any{ref("PrivateSubnetA"), ref("PrivateSubnetB")}, vpcConf["Subnets"].([]any))
	assert.Equal(t, []any{ref("ServiceSecurityGroup")}, vpcConf["SecurityGroups"])
}

func TestStack_PublicServiceBehindLoadBalancer(t *testing.T) {
	tmpl := buildTemplate(t)

	lb := props(t, tmpl, "LoadBalancer")
	assert.Equal(t, "internet-facing", lb["Scheme"])
	assert.Equal(t, "application", lb["Type"])
	assert.ElementsMatch(t, []any{ref("PublicSubnetA"), ref("PublicSubnetB")}, lb["Subnets"].([]any))
	assert.Equal(t, []any{ref("ServiceSecurityGroup")}, lb["SecurityGroups"])

	tg := props(t, tmpl, "TargetGroup")
	assert.EqualValues(t, 80, tg["Port"])
	assert.Equal(t, "HTTP", tg["Protocol"])
	assert.Equal(t, "ip", tg["TargetType"])
	assert.Equal(t, ref("Vpc"), tg["VpcId"])

	listener := props(t, tmpl, "HTTPListener")
	assert.EqualValues(t, 80, listener["Port"])
	assert.Equal(t, ref("LoadBalancer"), listener["LoadBalancerArn"])
	actions := listener["DefaultActions"].([]any)
	require.Len(t, actions, 1)
	action := actions[0].(map[string]any)
	assert.Equal(t, "forward", action["Type"])
	assert.Equal(t, ref("TargetGroup"), action["TargetGroupArn"])

	svc := props(t, tmpl, "PublicFlagrService")
	lbs := svc["LoadBalancers"].([]any)
	require.Len(t, lbs, 1)
	attachment := lbs[0].(map[string]any)
	assert.Equal(t, "flagr", attachment["ContainerName"])
	assert.EqualValues(t, 80, attachment["ContainerPort"])
	assert.Equal(t, ref("TargetGroup"), attachment["TargetGroupArn"])
}

func TestStack_Outputs(t *testing.T) {
	tmpl := buildTemplate(t)

	require.Contains(t, tmpl.Outputs, "LoadBalancerDNS")
	assert.Equal(t, getAtt("LoadBalancer", "DNSName"), tmpl.Outputs["LoadBalancerDNS"].Value)

	require.Contains(t, tmpl.Outputs, "DatabaseEndpoint")
	assert.Equal(t, getAtt("Database", "Endpoint.Address"), tmpl.Outputs["DatabaseEndpoint"].Value)

	require.Contains(t, tmpl.Outputs, "ClusterName")
	assert.Equal(t, ref("Cluster"), tmpl.Outputs["ClusterName"].Value)

	require.Contains(t, tmpl.Outputs, "VpcId")
	vpcOut := tmpl.Outputs["VpcId"]
	assert.Equal(t, ref("Vpc"), vpcOut.Value)
	require.NotNil(t, vpcOut.Export)
	assert.Equal(t, "flagr-vpc-id", vpcOut.Export.Name)
}

func TestStack_NoPlaintextCredentials(t *testing.T) {
	tmpl := buildTemplate(t)

	db := props(t, tmpl, "Database")
	_, isString := db["MasterUserPassword"].(string)
	assert.False(t, isString, "MasterUserPassword must be a dynamic reference, not a literal")
}
