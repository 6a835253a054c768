// Database credentials. The password is generated by Secrets Manager at
// create time and never appears in the template or in source.

package stack

import (
	. "github.com/openflagr/flagr-infra/intrinsics"
	"github.com/openflagr/flagr-infra/resources/secretsmanager"
)

// DatabaseSecretGenerate generates the password half of the credentials.
// Characters that break PostgreSQL connection strings are excluded.
var DatabaseSecretGenerate = secretsmanager.Secret_GenerateSecretString{
	SecretStringTemplate: `{"username":"flagr"}`,
	GenerateStringKey:    "password",
	PasswordLength:       32,
	ExcludeCharacters:    `"@/\`,
}

// DatabaseSecret holds the database credentials. RDS reads them through a
// dynamic reference; the task definition injects the password as a
// container secret.
var DatabaseSecret = secretsmanager.Secret{
	Name:                 Sub{String: "${AWS::StackName}-db-credentials"},
	Description:          "Flagr database credentials",
	GenerateSecretString: DatabaseSecretGenerate,
	Tags: []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-db-credentials"}},
	},
}
