package graph

import (
	"strings"
	"testing"

	flagrinfra "github.com/openflagr/flagr-infra"
)

func TestGenerator_Generate_SimpleGraph(t *testing.T) {
	resources := map[string]flagrinfra.DiscoveredResource{
		"Vpc": {
			Name: "Vpc",
			Type: "ec2.VPC",
		},
		"PublicSubnet": {
			Name:         "PublicSubnet",
			Type:         "ec2.Subnet",
			Dependencies: []string{"Vpc"},
		},
	}

	gen := &Generator{}
	var sb strings.Builder
	err := gen.Generate(resources, nil, &sb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := sb.String()

	if !strings.Contains(output, "digraph") {
		t.Error("expected digraph declaration")
	}
	if !strings.Contains(output, "Vpc") {
		t.Error("expected Vpc node")
	}
	if !strings.Contains(output, "PublicSubnet") {
		t.Error("expected PublicSubnet node")
	}
	if !strings.Contains(output, "->") {
		t.Error("expected dependency edge")
	}
}

func TestGenerator_Generate_GetAttEdges(t *testing.T) {
	resources := map[string]flagrinfra.DiscoveredResource{
		"TaskExecutionRole": {
			Name: "TaskExecutionRole",
			Type: "iam.Role",
		},
		"TaskDefinition": {
			Name:         "TaskDefinition",
			Type:         "ecs.TaskDefinition",
			Dependencies: []string{"TaskExecutionRole"},
			AttrRefUsages: []flagrinfra.AttrRefUsage{
				{ResourceName: "TaskExecutionRole", Attribute: "Arn", FieldPath: "ExecutionRoleArn"},
			},
		},
	}

	gen := &Generator{}
	output, err := gen.GenerateString(resources, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// GetAtt edges are colored to distinguish them from Refs
	if !strings.Contains(output, "blue") {
		t.Errorf("expected GetAtt edge styling, got:\n%s", output)
	}
}

func TestGenerator_Generate_IncludeParameters(t *testing.T) {
	resources := map[string]flagrinfra.DiscoveredResource{
		"Database": {
			Name:         "Database",
			Type:         "rds.DBInstance",
			Dependencies: []string{"DatabaseName"},
		},
	}
	parameters := map[string]flagrinfra.DiscoveredParameter{
		"DatabaseName": {Name: "DatabaseName"},
	}

	gen := &Generator{IncludeParameters: true}
	output, err := gen.GenerateString(resources, parameters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "DatabaseName") {
		t.Error("expected parameter node")
	}

	gen = &Generator{}
	output, err = gen.GenerateString(resources, parameters)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(output, "DatabaseName") {
		t.Error("expected parameter node to be omitted by default")
	}
}

func TestGenerator_Generate_ClusterByType(t *testing.T) {
	resources := map[string]flagrinfra.DiscoveredResource{
		"Vpc": {
			Name: "Vpc",
			Type: "ec2.VPC",
		},
		"PublicSubnet": {
			Name: "PublicSubnet",
			Type: "ec2.Subnet",
		},
		"Cluster": {
			Name: "Cluster",
			Type: "ecs.Cluster",
		},
	}

	gen := &Generator{ClusterByType: true}
	output, err := gen.GenerateString(resources, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "cluster_") {
		t.Errorf("expected service clusters, got:\n%s", output)
	}
}

func TestGenerator_Generate_MermaidFormat(t *testing.T) {
	resources := map[string]flagrinfra.DiscoveredResource{
		"Vpc": {
			Name: "Vpc",
			Type: "ec2.VPC",
		},
		"PublicSubnet": {
			Name:         "PublicSubnet",
			Type:         "ec2.Subnet",
			Dependencies: []string{"Vpc"},
		},
	}

	gen := &Generator{Format: FormatMermaid}
	output, err := gen.GenerateString(resources, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(output, "digraph") {
		t.Error("mermaid output should not contain DOT syntax")
	}
	if !strings.Contains(output, "Vpc") {
		t.Error("expected Vpc node")
	}
}

func TestGoTypeToCFType(t *testing.T) {
	tests := []struct {
		goType string
		want   string
	}{
		{"ec2.VPC", "AWS::EC2::VPC"},
		{"ecs.Service", "AWS::ECS::Service"},
		{"rds.DBInstance", "AWS::RDS::DBInstance"},
		{"secretsmanager.Secret", "AWS::SecretsManager::Secret"},
	}

	for _, tt := range tests {
		if got := goTypeToCFType(tt.goType); got != tt.want {
			t.Errorf("goTypeToCFType(%q) = %q, want %q", tt.goType, got, tt.want)
		}
	}
}
