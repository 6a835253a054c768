// Package ecs contains CloudFormation resource types for Amazon ECS:
// clusters, task definitions, and services.
package ecs

import (
	flagrinfra "github.com/openflagr/flagr-infra"
)

// Cluster represents an AWS::ECS::Cluster resource.
type Cluster struct {
	// ClusterName is the cluster name.
	ClusterName any
	// ClusterSettings configures cluster features such as Container Insights.
	ClusterSettings []any
	// Tags are key-value pairs to categorize the cluster.
	Tags []any

	// Arn is the GetAtt reference to the cluster ARN.
	Arn flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (Cluster) ResourceType() string { return "AWS::ECS::Cluster" }

// Cluster_ClusterSettings is a cluster setting entry.
type Cluster_ClusterSettings struct {
	Name  string
	Value string
}

// TaskDefinition represents an AWS::ECS::TaskDefinition resource.
type TaskDefinition struct {
	// Family groups revisions of the task definition.
	Family any
	// NetworkMode is the Docker networking mode ("awsvpc" for Fargate).
	NetworkMode string
	// RequiresCompatibilities lists launch types the task validates against.
	RequiresCompatibilities []any
	// Cpu is the task-level CPU units, as a string (e.g. "512").
	Cpu string
	// Memory is the task-level memory in MiB, as a string (e.g. "1024").
	Memory string
	// ExecutionRoleArn is the role ECS uses to pull images and inject secrets.
	ExecutionRoleArn any
	// TaskRoleArn is the role the application containers assume.
	TaskRoleArn any
	// ContainerDefinitions is the list of container specs.
	ContainerDefinitions []any
	// Volumes is the list of data volumes available to containers.
	Volumes []any
	// Tags are key-value pairs to categorize the task definition.
	Tags []any
}

// ResourceType returns the CloudFormation type.
func (TaskDefinition) ResourceType() string { return "AWS::ECS::TaskDefinition" }

// TaskDefinition_ContainerDefinition defines one container of a task.
type TaskDefinition_ContainerDefinition struct {
	Name             string
	Image            any
	Essential        bool
	PortMappings     []any
	Environment      []any
	Secrets          []any
	MountPoints      []any
	LogConfiguration any
	Command          []any
	EntryPoint       []any
}

// TaskDefinition_PortMapping exposes a container port.
type TaskDefinition_PortMapping struct {
	ContainerPort int
	HostPort      int
	Protocol      string
}

// TaskDefinition_KeyValuePair is an environment variable entry.
type TaskDefinition_KeyValuePair struct {
	Name  string
	Value any
}

// TaskDefinition_Secret injects a Secrets Manager or SSM value into the
// container environment at start time.
type TaskDefinition_Secret struct {
	Name      string
	ValueFrom any
}

// TaskDefinition_MountPoint mounts a task volume into a container.
type TaskDefinition_MountPoint struct {
	ContainerPath string
	SourceVolume  string
	ReadOnly      bool
}

// TaskDefinition_Volume is a data volume available to the task's containers.
type TaskDefinition_Volume struct {
	Name string
	Host any
}

// TaskDefinition_HostVolumeProperties bind-mounts a host path.
// With an empty SourcePath, Fargate provisions scratch storage for the task.
type TaskDefinition_HostVolumeProperties struct {
	SourcePath string
}

// TaskDefinition_LogConfiguration configures the container log driver.
type TaskDefinition_LogConfiguration struct {
	LogDriver string
	Options   map[string]any
}

// Service represents an AWS::ECS::Service resource.
type Service struct {
	// ServiceName is the service name.
	ServiceName any
	// Cluster is the cluster the service runs in.
	Cluster any
	// TaskDefinition is the task definition the service keeps running.
	TaskDefinition any
	// DesiredCount is the number of task instances to keep alive.
	DesiredCount int
	// LaunchType is "FARGATE" or "EC2".
	LaunchType string
	// NetworkConfiguration configures awsvpc networking.
	NetworkConfiguration any
	// DeploymentConfiguration tunes rolling deployments.
	DeploymentConfiguration any
	// LoadBalancers attaches the service to target groups.
	LoadBalancers []any
	// HealthCheckGracePeriodSeconds delays health checks after task start.
	HealthCheckGracePeriodSeconds int
	// EnableECSManagedTags propagates ECS-managed resource tags.
	EnableECSManagedTags bool
	// PropagateTags copies tags from the service or task definition to tasks.
	PropagateTags string
	// Tags are key-value pairs to categorize the service.
	Tags []any

	// Name is the GetAtt reference to the service name.
	Name flagrinfra.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (Service) ResourceType() string { return "AWS::ECS::Service" }

// Service_AwsVpcConfiguration configures VPC networking for a service.
type Service_AwsVpcConfiguration struct {
	AssignPublicIp string
	Subnets        []any
	SecurityGroups []any
}

// Service_NetworkConfiguration wraps the VPC configuration.
type Service_NetworkConfiguration struct {
	AwsvpcConfiguration any
}

// Service_DeploymentConfiguration tunes rolling deployments.
type Service_DeploymentConfiguration struct {
	MaximumPercent           int
	MinimumHealthyPercent    int
	DeploymentCircuitBreaker any
}

// Service_DeploymentCircuitBreaker enables rollback on failed deployments.
type Service_DeploymentCircuitBreaker struct {
	Enable   bool
	Rollback bool
}

// Service_LoadBalancer attaches a container port to a target group.
type Service_LoadBalancer struct {
	ContainerName  string
	ContainerPort  int
	TargetGroupArn any
}
