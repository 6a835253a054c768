// Package lint provides lint rules for flagr-infra stack declarations.
package lint

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// Severity indicates how serious a lint issue is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single lint finding.
type Issue struct {
	Rule       string
	Message    string
	Suggestion string
	File       string
	Line       int
	Column     int
	Severity   Severity
}

// Rule checks a parsed Go file for issues.
type Rule interface {
	ID() string
	Description() string
	Check(file *ast.File, fset *token.FileSet) []Issue
}

// Result contains the outcome of linting.
type Result struct {
	Success bool
	Issues  []Issue
}

// Options configures the linter.
type Options struct {
	// Rules to enable. If empty, all rules are enabled.
	EnabledRules []string
	// MaxResources for the FileTooLarge rule.
	MaxResources int
}

// LintFile lints a single Go file.
func LintFile(path string, opts Options) (Result, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return Result{}, err
	}

	rules := getRules(opts)
	var issues []Issue

	for _, rule := range rules {
		issues = append(issues, rule.Check(file, fset)...)
	}

	return Result{
		Success: len(issues) == 0,
		Issues:  issues,
	}, nil
}

// LintPackage lints all Go files in a package directory.
func LintPackage(pkgPath string, opts Options) (Result, error) {
	// Handle ./... pattern
	if strings.HasSuffix(pkgPath, "...") {
		root := strings.TrimSuffix(strings.TrimSuffix(pkgPath, "..."), "/")
		return lintRecursive(root, opts)
	}

	fset := token.NewFileSet()

	pkgs, err := parser.ParseDir(fset, pkgPath, nil, parser.ParseComments)
	if err != nil {
		return Result{}, err
	}

	rules := getRules(opts)
	var allIssues []Issue

	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, rule := range rules {
				allIssues = append(allIssues, rule.Check(file, fset)...)
			}
		}
	}

	return Result{
		Success: len(allIssues) == 0,
		Issues:  allIssues,
	}, nil
}

// lintRecursive lints all Go packages recursively.
func lintRecursive(root string, opts Options) (Result, error) {
	var allIssues []Issue

	if root == "" {
		root = "."
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip vendor and hidden directories
		if info.IsDir() {
			name := info.Name()
			if path != root && (name == "vendor" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(path, ".go") {
			if strings.HasSuffix(path, "_test.go") {
				return nil
			}

			result, err := LintFile(path, opts)
			if err != nil {
				// Don't fail the whole run on a parse error
				return nil
			}

			allIssues = append(allIssues, result.Issues...)
		}

		return nil
	})

	if err != nil {
		return Result{}, err
	}

	return Result{
		Success: len(allIssues) == 0,
		Issues:  allIssues,
	}, nil
}

// getRules returns the rules to use based on options.
func getRules(opts Options) []Rule {
	all := AllRules()

	if opts.MaxResources > 0 {
		for i, r := range all {
			if ftl, ok := r.(FileTooLarge); ok {
				ftl.MaxResources = opts.MaxResources
				all[i] = ftl
			}
		}
	}

	if len(opts.EnabledRules) == 0 {
		return all
	}

	enabled := make(map[string]bool)
	for _, id := range opts.EnabledRules {
		enabled[id] = true
	}

	var filtered []Rule
	for _, r := range all {
		if enabled[r.ID()] {
			filtered = append(filtered, r)
		}
	}

	return filtered
}
