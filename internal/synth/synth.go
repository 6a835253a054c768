// Package synth runs the full synthesis pipeline: AST discovery over the
// stack package, in-process value extraction, and template building.
package synth

import (
	"fmt"

	flagrinfra "github.com/openflagr/flagr-infra"
	"github.com/openflagr/flagr-infra/internal/discover"
	"github.com/openflagr/flagr-infra/internal/registry"
	"github.com/openflagr/flagr-infra/internal/template"
)

// Options configures synthesis.
type Options struct {
	// Packages to scan for declarations (e.g., "./stack")
	Packages []string
	// Declarations maps logical names to the declared values, as returned
	// by the stack package
	Declarations map[string]any
	// Description is the template description
	Description string
}

// Result is the outcome of a synthesis run.
type Result struct {
	Template *flagrinfra.Template
	Discover *discover.Result
}

// Synthesize discovers declarations, extracts their values, and builds the
// CloudFormation template.
func Synthesize(opts Options) (*Result, error) {
	disc, err := discover.Discover(discover.Options{
		Packages: opts.Packages,
	})
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	if len(disc.Errors) > 0 {
		return nil, fmt.Errorf("discovery found %d errors, first: %w", len(disc.Errors), disc.Errors[0])
	}

	builder := template.NewBuilderFull(
		disc.Resources,
		disc.Parameters,
		disc.Outputs,
	)
	builder.SetDescription(opts.Description)

	// Hand the AttrRef usage index to the builder for GetAtt patching
	varAttrRefs := make(map[string]template.VarAttrRefInfo)
	for name, info := range disc.VarAttrRefs {
		varAttrRefs[name] = template.VarAttrRefInfo{
			AttrRefs: info.AttrRefs,
			VarRefs:  info.VarRefs,
		}
	}
	builder.SetVarAttrRefs(varAttrRefs)

	// Extract values in-process; the declarations are compiled into the
	// binary, so no external program run is needed.
	reg := registry.New(opts.Declarations)
	values, err := reg.ExtractAll()
	if err != nil {
		return nil, fmt.Errorf("extracting values: %w", err)
	}

	for name, props := range values.Resources {
		builder.SetValue(name, props)
	}
	for name, props := range values.Parameters {
		builder.SetValue(name, props)
	}
	for name, props := range values.Outputs {
		builder.SetValue(name, props)
	}

	tmpl, err := builder.Build()
	if err != nil {
		return nil, err
	}

	return &Result{
		Template: tmpl,
		Discover: disc,
	}, nil
}
