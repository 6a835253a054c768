package lint

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, code string) (*ast.File, *token.FileSet) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "stack.go", code, parser.ParseComments)
	require.NoError(t, err)
	return file, fset
}

func checkRule(t *testing.T, rule Rule, code string) []Issue {
	t.Helper()
	file, fset := parseSource(t, code)
	return rule.Check(file, fset)
}

func TestHardcodedPseudoParameter(t *testing.T) {
	issues := checkRule(t, HardcodedPseudoParameter{}, `package stack

var Options = map[string]any{
	"awslogs-region": Ref{"AWS::Region"},
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG001", issues[0].Rule)
	assert.Contains(t, issues[0].Message, "AWS_REGION")
}

func TestHardcodedPseudoParameter_IgnoresSubStrings(t *testing.T) {
	// Pseudo-parameters inside Sub templates are the supported form
	issues := checkRule(t, HardcodedPseudoParameter{}, `package stack

var Name = Sub{String: "${AWS::StackName}-cluster"}
`)
	assert.Empty(t, issues)
}

func TestMapShouldBeIntrinsic(t *testing.T) {
	issues := checkRule(t, MapShouldBeIntrinsic{}, `package stack

var VpcRef = map[string]any{"Ref": "Vpc"}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG002", issues[0].Rule)
	assert.Contains(t, issues[0].Message, "intrinsics.Ref")
}

func TestMapShouldBeIntrinsic_IgnoresPlainMaps(t *testing.T) {
	issues := checkRule(t, MapShouldBeIntrinsic{}, `package stack

var Options = map[string]any{
	"awslogs-stream-prefix": "flagr",
}
`)
	assert.Empty(t, issues)
}

func TestDuplicateResource(t *testing.T) {
	issues := checkRule(t, DuplicateResource{}, `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

var Vpc = ec2.VPC{CidrBlock: "10.0.0.0/16"}
var Vpc = ec2.VPC{CidrBlock: "10.1.0.0/16"}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG003", issues[0].Rule)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "Vpc")
}

func TestDuplicateResource_IgnoresPropertyBlocks(t *testing.T) {
	issues := checkRule(t, DuplicateResource{}, `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

var Ingress = ec2.SecurityGroup_Ingress{FromPort: 80}
var Ingress = ec2.SecurityGroup_Ingress{FromPort: 443}
`)
	assert.Empty(t, issues)
}

func TestFileTooLarge(t *testing.T) {
	code := "package stack\n\nimport \"github.com/openflagr/flagr-infra/resources/ec2\"\n\n"
	for i := 0; i < 4; i++ {
		code += "var Subnet" + string(rune('A'+i)) + " = ec2.Subnet{CidrBlock: \"10.0.0.0/24\"}\n"
	}

	issues := checkRule(t, FileTooLarge{MaxResources: 3}, code)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG004", issues[0].Rule)

	issues = checkRule(t, FileTooLarge{MaxResources: 10}, code)
	assert.Empty(t, issues)
}

func TestAvoidExplicitRef(t *testing.T) {
	issues := checkRule(t, AvoidExplicitRef{}, `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

var PublicSubnet = ec2.Subnet{
	VpcId: Ref{"Vpc"},
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG005", issues[0].Rule)
	assert.Contains(t, issues[0].Suggestion, "Vpc")
}

func TestAvoidExplicitRef_AllowsPseudoParameters(t *testing.T) {
	issues := checkRule(t, AvoidExplicitRef{}, `package stack

var Region = Ref{"AWS::Region"}
`)
	assert.Empty(t, issues)
}

func TestAvoidExplicitGetAtt(t *testing.T) {
	issues := checkRule(t, AvoidExplicitGetAtt{}, `package stack

import "github.com/openflagr/flagr-infra/resources/ecs"

var TaskDefinition = ecs.TaskDefinition{
	ExecutionRoleArn: GetAtt{"TaskExecutionRole", "Arn"},
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG006", issues[0].Rule)
	assert.Contains(t, issues[0].Suggestion, "TaskExecutionRole.Arn")
}

func TestAvoidPointerAssignment(t *testing.T) {
	issues := checkRule(t, AvoidPointerAssignment{}, `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

var Vpc = &ec2.VPC{CidrBlock: "10.0.0.0/16"}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG007", issues[0].Rule)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "Vpc")
}

func TestPlaintextCredential(t *testing.T) {
	issues := checkRule(t, PlaintextCredential{}, `package stack

import "github.com/openflagr/flagr-infra/resources/rds"

var Database = rds.DBInstance{
	Engine:             "postgres",
	MasterUserPassword: "hunter2",
}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG008", issues[0].Rule)
	assert.Equal(t, SeverityError, issues[0].Severity)
}

func TestPlaintextCredential_AllowsDynamicReferences(t *testing.T) {
	issues := checkRule(t, PlaintextCredential{}, `package stack

import "github.com/openflagr/flagr-infra/resources/rds"

var Database = rds.DBInstance{
	MasterUserPassword: "{{resolve:secretsmanager:${DatabaseSecret}:SecretString:password}}",
}
`)
	assert.Empty(t, issues)
}

func TestPlaintextCredential_AllowsIntrinsicValues(t *testing.T) {
	issues := checkRule(t, PlaintextCredential{}, `package stack

import "github.com/openflagr/flagr-infra/resources/rds"

var Database = rds.DBInstance{
	MasterUserPassword: Sub{String: "{{resolve:secretsmanager:${DatabaseSecret}:SecretString:password}}"},
}
`)
	assert.Empty(t, issues)
}

func TestMissingResourceDoc(t *testing.T) {
	issues := checkRule(t, MissingResourceDoc{}, `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

var Vpc = ec2.VPC{CidrBlock: "10.0.0.0/16"}
`)
	require.Len(t, issues, 1)
	assert.Equal(t, "FLG009", issues[0].Rule)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
}

func TestMissingResourceDoc_AcceptsDocumented(t *testing.T) {
	issues := checkRule(t, MissingResourceDoc{}, `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

// Vpc is the Virtual Private Cloud everything runs in.
var Vpc = ec2.VPC{CidrBlock: "10.0.0.0/16"}
`)
	assert.Empty(t, issues)
}

func TestLintFile_RunsAllRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.go")
	code := `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

var Subnet = &ec2.Subnet{
	VpcId: Ref{"Vpc"},
}
`
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))

	result, err := LintFile(path, Options{})
	require.NoError(t, err)
	assert.False(t, result.Success)

	rules := map[string]bool{}
	for _, issue := range result.Issues {
		rules[issue.Rule] = true
	}
	assert.True(t, rules["FLG005"], "expected explicit Ref finding")
	assert.True(t, rules["FLG007"], "expected pointer assignment finding")
}

func TestLintFile_EnabledRulesFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.go")
	code := `package stack

import "github.com/openflagr/flagr-infra/resources/ec2"

var Subnet = &ec2.Subnet{
	VpcId: Ref{"Vpc"},
}
`
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))

	result, err := LintFile(path, Options{EnabledRules: []string{"FLG007"}})
	require.NoError(t, err)

	for _, issue := range result.Issues {
		assert.Equal(t, "FLG007", issue.Rule)
	}
	assert.NotEmpty(t, result.Issues)
}
