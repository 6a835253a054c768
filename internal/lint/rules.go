// Lint rules for stack declaration files.
//
// Rules:
//
//	FLG001: Use pseudo-parameter constants instead of hardcoded strings
//	FLG002: Use intrinsic types instead of raw map[string]any
//	FLG003: Detect duplicate resource variable names
//	FLG004: Split large files with too many resources
//	FLG005: Avoid explicit Ref{} - use direct variable references or Param()
//	FLG006: Avoid explicit GetAtt{} - use resource.Attr field access
//	FLG007: Avoid pointer assignments (&Type{}) - use value types
//	FLG008: Avoid plaintext credentials - use Secrets Manager references
//	FLG009: Resource declarations should carry a doc comment
package lint

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// HardcodedPseudoParameter detects hardcoded AWS pseudo-parameter strings.
//
// Detects: "AWS::Region", "AWS::AccountId", "AWS::StackName"
// Suggests: intrinsics.AWS_REGION, intrinsics.AWS_ACCOUNT_ID, etc.
type HardcodedPseudoParameter struct{}

func (r HardcodedPseudoParameter) ID() string { return "FLG001" }
func (r HardcodedPseudoParameter) Description() string {
	return "Use pseudo-parameter constants instead of hardcoded strings"
}

var pseudoParams = map[string]string{
	"AWS::Region":           "AWS_REGION",
	"AWS::AccountId":        "AWS_ACCOUNT_ID",
	"AWS::StackName":        "AWS_STACK_NAME",
	"AWS::StackId":          "AWS_STACK_ID",
	"AWS::Partition":        "AWS_PARTITION",
	"AWS::URLSuffix":        "AWS_URL_SUFFIX",
	"AWS::NoValue":          "AWS_NO_VALUE",
	"AWS::NotificationARNs": "AWS_NOTIFICATION_ARNS",
}

func (r HardcodedPseudoParameter) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		lit, ok := n.(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}

		value := strings.Trim(lit.Value, `"`)

		if constant, found := pseudoParams[value]; found {
			pos := fset.Position(lit.Pos())
			issues = append(issues, Issue{
				Rule:       r.ID(),
				Message:    "Use " + constant + " instead of \"" + value + "\"",
				Suggestion: constant,
				File:       pos.Filename,
				Line:       pos.Line,
				Column:     pos.Column,
				Severity:   SeverityWarning,
			})
		}

		return true
	})

	return issues
}

// MapShouldBeIntrinsic detects map[string]any patterns that should use intrinsic types.
//
// Detects: map[string]any{"Ref": "..."}, map[string]any{"Fn::Sub": "..."}
// Suggests: intrinsics.Ref{...}, intrinsics.Sub{...}
type MapShouldBeIntrinsic struct{}

func (r MapShouldBeIntrinsic) ID() string { return "FLG002" }
func (r MapShouldBeIntrinsic) Description() string {
	return "Use intrinsic types instead of raw map[string]any"
}

var intrinsicKeys = map[string]string{
	"Ref":             "Ref",
	"Fn::Sub":         "Sub",
	"Fn::Join":        "Join",
	"Fn::Select":      "Select",
	"Fn::GetAZs":      "GetAZs",
	"Fn::GetAtt":      "GetAtt",
	"Fn::Base64":      "Base64",
	"Fn::Split":       "Split",
	"Fn::ImportValue": "ImportValue",
	"Fn::Cidr":        "Cidr",
}

func (r MapShouldBeIntrinsic) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		comp, ok := n.(*ast.CompositeLit)
		if !ok {
			return true
		}

		if !isMapStringAny(comp.Type) {
			return true
		}

		// Intrinsic maps have exactly one key-value pair
		if len(comp.Elts) != 1 {
			return true
		}

		kv, ok := comp.Elts[0].(*ast.KeyValueExpr)
		if !ok {
			return true
		}

		keyLit, ok := kv.Key.(*ast.BasicLit)
		if !ok || keyLit.Kind != token.STRING {
			return true
		}

		keyValue := strings.Trim(keyLit.Value, `"`)
		if typeName, found := intrinsicKeys[keyValue]; found {
			pos := fset.Position(comp.Pos())
			issues = append(issues, Issue{
				Rule:       r.ID(),
				Message:    "Use intrinsics." + typeName + "{...} instead of map[string]any{\"" + keyValue + "\": ...}",
				Suggestion: typeName + "{...}",
				File:       pos.Filename,
				Line:       pos.Line,
				Column:     pos.Column,
				Severity:   SeverityWarning,
			})
		}

		return true
	})

	return issues
}

// isMapStringAny checks if an expression is map[string]any
func isMapStringAny(expr ast.Expr) bool {
	mapType, ok := expr.(*ast.MapType)
	if !ok {
		return false
	}

	keyIdent, ok := mapType.Key.(*ast.Ident)
	if !ok || keyIdent.Name != "string" {
		return false
	}

	switch v := mapType.Value.(type) {
	case *ast.Ident:
		return v.Name == "any"
	case *ast.InterfaceType:
		return len(v.Methods.List) == 0 // Empty interface
	}

	return false
}

// DuplicateResource detects duplicate resource variable names in a file.
type DuplicateResource struct{}

func (r DuplicateResource) ID() string { return "FLG003" }
func (r DuplicateResource) Description() string {
	return "Detect duplicate resource variable names"
}

func (r DuplicateResource) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	varLocations := make(map[string][]token.Position)

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			if !isResourceDeclaration(valueSpec) {
				continue
			}

			for _, name := range valueSpec.Names {
				pos := fset.Position(name.Pos())
				varLocations[name.Name] = append(varLocations[name.Name], pos)
			}
		}
	}

	for name, locations := range varLocations {
		if len(locations) > 1 {
			// Report all locations after the first
			for _, loc := range locations[1:] {
				issues = append(issues, Issue{
					Rule:       r.ID(),
					Message:    "Duplicate resource variable '" + name + "' (first defined at line " + strconv.Itoa(locations[0].Line) + ")",
					Suggestion: "Rename or remove the duplicate declaration",
					File:       loc.Filename,
					Line:       loc.Line,
					Column:     loc.Column,
					Severity:   SeverityError,
				})
			}
		}
	}

	return issues
}

// resourceModules are the resource package names the stack declares from.
var resourceModules = map[string]bool{
	"ec2": true, "ecs": true, "elasticloadbalancingv2": true,
	"iam": true, "logs": true, "rds": true, "secretsmanager": true,
}

// isResourceDeclaration checks if a value spec is a resource declaration
func isResourceDeclaration(spec *ast.ValueSpec) bool {
	if len(spec.Values) == 0 {
		return false
	}

	for _, value := range spec.Values {
		comp, ok := value.(*ast.CompositeLit)
		if !ok {
			continue
		}

		sel, ok := comp.Type.(*ast.SelectorExpr)
		if !ok {
			continue
		}

		pkgIdent, ok := sel.X.(*ast.Ident)
		if !ok {
			continue
		}

		// Property types (Type_SubType) are not resources
		if strings.Contains(sel.Sel.Name, "_") {
			continue
		}

		if resourceModules[pkgIdent.Name] {
			return true
		}
	}

	return false
}

// FileTooLarge detects files with too many resources.
type FileTooLarge struct {
	MaxResources int
}

func (r FileTooLarge) ID() string { return "FLG004" }
func (r FileTooLarge) Description() string {
	return "Split large files into smaller ones"
}

func (r FileTooLarge) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	maxResources := r.MaxResources
	if maxResources == 0 {
		maxResources = 15 // Default
	}

	count := 0
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			if isResourceDeclaration(valueSpec) {
				count += len(valueSpec.Names)
			}
		}
	}

	if count > maxResources {
		pos := fset.Position(file.Pos())
		message := fmt.Sprintf("File has %d resources (max %d). Consider splitting by concern: network.go, security.go, database.go", count, maxResources)
		issues = append(issues, Issue{
			Rule:       r.ID(),
			Message:    message,
			Suggestion: fmt.Sprintf("Split %d resources into multiple files", count),
			File:       pos.Filename,
			Line:       1,
			Column:     0,
			Severity:   SeverityWarning,
		})
	}

	return issues
}

// AvoidExplicitRef detects explicit Ref{} struct literals.
// Prefer direct variable references for resources or Param() for parameters.
//
// Example:
//
//	// Bad - explicit Ref{}
//	VpcId: Ref{"Vpc"},
//
//	// Good - direct reference
//	VpcId: Vpc,
type AvoidExplicitRef struct{}

func (r AvoidExplicitRef) ID() string { return "FLG005" }
func (r AvoidExplicitRef) Description() string {
	return "Avoid explicit Ref{} - use direct variable references or Param()"
}

func (r AvoidExplicitRef) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		comp, ok := n.(*ast.CompositeLit)
		if !ok {
			return true
		}

		typeName := compositeTypeName(comp)
		if typeName != "Ref" {
			return true
		}

		refName := ""
		if len(comp.Elts) > 0 {
			if lit, ok := comp.Elts[0].(*ast.BasicLit); ok {
				refName = strings.Trim(lit.Value, `"`)
			}
		}

		// Refs to pseudo-parameters have no declared variable to point at
		if strings.HasPrefix(refName, "AWS::") {
			return true
		}

		pos := fset.Position(comp.Pos())
		suggestion := "Use direct variable reference for resources, Param() for parameters"
		if refName != "" {
			suggestion = fmt.Sprintf("For resources: use %s directly. For parameters: var %s = Param(%q)", refName, refName, refName)
		}

		issues = append(issues, Issue{
			Rule:       r.ID(),
			Message:    "Avoid Ref{} - use direct variable reference or Param() helper",
			Suggestion: suggestion,
			File:       pos.Filename,
			Line:       pos.Line,
			Column:     pos.Column,
			Severity:   SeverityWarning,
		})

		return true
	})

	return issues
}

// AvoidExplicitGetAtt detects explicit GetAtt{} struct literals.
// Prefer resource.Attr field access for GetAtt functionality.
//
// Example:
//
//	// Bad - explicit GetAtt{}
//	ExecutionRoleArn: GetAtt{"TaskExecutionRole", "Arn"},
//
//	// Good - field access
//	ExecutionRoleArn: TaskExecutionRole.Arn,
type AvoidExplicitGetAtt struct{}

func (r AvoidExplicitGetAtt) ID() string { return "FLG006" }
func (r AvoidExplicitGetAtt) Description() string {
	return "Avoid explicit GetAtt{} - use resource.Attr field access"
}

func (r AvoidExplicitGetAtt) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		comp, ok := n.(*ast.CompositeLit)
		if !ok {
			return true
		}

		if compositeTypeName(comp) != "GetAtt" {
			return true
		}

		resourceName := ""
		attrName := ""
		if len(comp.Elts) >= 2 {
			if lit, ok := comp.Elts[0].(*ast.BasicLit); ok {
				resourceName = strings.Trim(lit.Value, `"`)
			}
			if lit, ok := comp.Elts[1].(*ast.BasicLit); ok {
				attrName = strings.Trim(lit.Value, `"`)
			}
		}

		pos := fset.Position(comp.Pos())
		suggestion := "Use Resource.Attr field access instead"
		if resourceName != "" && attrName != "" {
			suggestion = fmt.Sprintf("Use %s.%s instead", resourceName, attrName)
		}

		issues = append(issues, Issue{
			Rule:       r.ID(),
			Message:    "Avoid GetAtt{} - use resource.Attr field access",
			Suggestion: suggestion,
			File:       pos.Filename,
			Line:       pos.Line,
			Column:     pos.Column,
			Severity:   SeverityWarning,
		})

		return true
	})

	return issues
}

// compositeTypeName returns the unqualified type name of a composite literal,
// covering both Ref{...} and intrinsics.Ref{...} forms.
func compositeTypeName(comp *ast.CompositeLit) string {
	switch t := comp.Type.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

// AvoidPointerAssignment detects pointer assignments in top-level var declarations.
// The AST-based discovery expects struct literals, not pointers.
//
// Example:
//
//	// Bad - pointer assignment
//	var Vpc = &ec2.VPC{...}
//
//	// Good - value assignment
//	var Vpc = ec2.VPC{...}
type AvoidPointerAssignment struct{}

func (r AvoidPointerAssignment) ID() string { return "FLG007" }
func (r AvoidPointerAssignment) Description() string {
	return "Avoid pointer assignments (&Type{}) - use value types"
}

func (r AvoidPointerAssignment) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			for i, value := range valueSpec.Values {
				unary, ok := value.(*ast.UnaryExpr)
				if !ok || unary.Op != token.AND {
					continue
				}

				comp, ok := unary.X.(*ast.CompositeLit)
				if !ok {
					continue
				}

				typeName := "struct"
				switch t := comp.Type.(type) {
				case *ast.SelectorExpr:
					typeName = t.Sel.Name
				case *ast.Ident:
					typeName = t.Name
				}

				varName := "_"
				if i < len(valueSpec.Names) {
					varName = valueSpec.Names[i].Name
				}

				pos := fset.Position(unary.Pos())
				issues = append(issues, Issue{
					Rule:       r.ID(),
					Message:    fmt.Sprintf("Avoid pointer assignment for %s - use value type instead of &%s{}", varName, typeName),
					Suggestion: fmt.Sprintf("var %s = %s{...} (remove &)", varName, typeName),
					File:       pos.Filename,
					Line:       pos.Line,
					Column:     pos.Column,
					Severity:   SeverityError,
				})
			}
		}
	}

	return issues
}

// PlaintextCredential detects credential values written directly into
// declarations. Database passwords belong in Secrets Manager, referenced
// via dynamic references or ECS container secrets.
//
// Example:
//
//	// Bad - plaintext password in the template
//	MasterUserPassword: "password",
//
//	// Good - resolved from a generated secret at deploy time
//	MasterUserPassword: Sub{"{{resolve:secretsmanager:${DatabaseSecret}:SecretString:password}}"},
type PlaintextCredential struct{}

func (r PlaintextCredential) ID() string { return "FLG008" }
func (r PlaintextCredential) Description() string {
	return "Avoid plaintext credentials - use Secrets Manager references"
}

// credentialFields are struct fields and env var names that hold secrets.
var credentialFields = map[string]bool{
	"masteruserpassword": true,
	"password":           true,
	"database_password":  true,
	"db_password":        true,
	"secret":             true,
	"secret_key":         true,
	"access_key":         true,
	"token":              true,
	"auth_token":         true,
}

func (r PlaintextCredential) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	ast.Inspect(file, func(n ast.Node) bool {
		kv, ok := n.(*ast.KeyValueExpr)
		if !ok {
			return true
		}

		var keyName string
		switch key := kv.Key.(type) {
		case *ast.Ident:
			keyName = strings.ToLower(key.Name)
		case *ast.BasicLit:
			if key.Kind == token.STRING {
				keyName = strings.ToLower(strings.Trim(key.Value, `"`))
			}
		}

		if !credentialFields[keyName] {
			return true
		}

		// A string literal value is the problem; references and intrinsics
		// (Sub with a dynamic reference, container secrets) are fine.
		lit, ok := kv.Value.(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}

		value := strings.Trim(lit.Value, `"`)
		if value == "" || strings.Contains(value, "{{resolve:") {
			return true
		}

		pos := fset.Position(lit.Pos())
		issues = append(issues, Issue{
			Rule:       r.ID(),
			Message:    fmt.Sprintf("Plaintext credential in field '%s' - the value ends up in the rendered template", keyName),
			Suggestion: "Generate the credential in Secrets Manager and reference it with {{resolve:secretsmanager:...}} or a container secret",
			File:       pos.Filename,
			Line:       pos.Line,
			Column:     pos.Column,
			Severity:   SeverityError,
		})

		return true
	})

	return issues
}

// MissingResourceDoc detects resource declarations without a doc comment.
// The logical topology reads from these comments; undocumented resources
// make template review harder.
type MissingResourceDoc struct{}

func (r MissingResourceDoc) ID() string { return "FLG009" }
func (r MissingResourceDoc) Description() string {
	return "Resource declarations should carry a doc comment"
}

func (r MissingResourceDoc) Check(file *ast.File, fset *token.FileSet) []Issue {
	var issues []Issue

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok || !isResourceDeclaration(valueSpec) {
				continue
			}

			if genDecl.Doc != nil || valueSpec.Doc != nil || valueSpec.Comment != nil {
				continue
			}

			for _, name := range valueSpec.Names {
				pos := fset.Position(name.Pos())
				issues = append(issues, Issue{
					Rule:       r.ID(),
					Message:    "Resource '" + name.Name + "' has no doc comment",
					Suggestion: "Add a comment describing the resource's role in the topology",
					File:       pos.Filename,
					Line:       pos.Line,
					Column:     pos.Column,
					Severity:   SeverityInfo,
				})
			}
		}
	}

	return issues
}

// AllRules returns all available lint rules.
func AllRules() []Rule {
	return []Rule{
		HardcodedPseudoParameter{},
		MapShouldBeIntrinsic{},
		DuplicateResource{},
		FileTooLarge{MaxResources: 15},
		AvoidExplicitRef{},
		AvoidExplicitGetAtt{},
		AvoidPointerAssignment{},
		PlaintextCredential{},
		MissingResourceDoc{},
	}
}
