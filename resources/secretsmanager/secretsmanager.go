// Package secretsmanager contains CloudFormation resource types for AWS
// Secrets Manager.
package secretsmanager

// Secret represents an AWS::SecretsManager::Secret resource.
// Ref returns the secret ARN.
type Secret struct {
	// Name is the secret name.
	Name any
	// Description describes the secret.
	Description string
	// GenerateSecretString lets Secrets Manager generate the secret value.
	GenerateSecretString any
	// Tags are key-value pairs to categorize the secret.
	Tags []any
}

// ResourceType returns the CloudFormation type.
func (Secret) ResourceType() string { return "AWS::SecretsManager::Secret" }

// Secret_GenerateSecretString configures secret value generation.
type Secret_GenerateSecretString struct {
	// SecretStringTemplate is a JSON template the generated value is merged into.
	SecretStringTemplate string
	// GenerateStringKey is the template key that receives the generated value.
	GenerateStringKey string
	// PasswordLength is the generated value length.
	PasswordLength int
	// ExcludeCharacters lists characters to exclude from generation.
	ExcludeCharacters string
	// ExcludePunctuation excludes all punctuation from generation.
	ExcludePunctuation bool
}
