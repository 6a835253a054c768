// Package template provides CloudFormation template building from discovered resources.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	flagrinfra "github.com/openflagr/flagr-infra"
)

// attrNameOverrides maps Go attribute field names to CloudFormation GetAtt
// attribute names where they differ. RDS flattens the Endpoint struct into
// dotted attribute names.
var attrNameOverrides = map[string]string{
	"EndpointAddress": "Endpoint.Address",
	"EndpointPort":    "Endpoint.Port",
}

// VarAttrRefInfo tracks AttrRef usages and variable references for a single
// variable, mirroring the discovery result.
type VarAttrRefInfo struct {
	AttrRefs []flagrinfra.AttrRefUsage
	// VarRefs maps field path to referenced variable name
	VarRefs map[string]string
}

// Builder constructs CloudFormation templates from discovered resources.
type Builder struct {
	resources   map[string]flagrinfra.DiscoveredResource
	parameters  map[string]flagrinfra.DiscoveredParameter
	outputs     map[string]flagrinfra.DiscoveredOutput
	values      map[string]any // serialized property maps
	varAttrRefs map[string]VarAttrRefInfo
	description string
}

// NewBuilder creates a template builder from discovered resources.
func NewBuilder(resources map[string]flagrinfra.DiscoveredResource) *Builder {
	return &Builder{
		resources:   resources,
		parameters:  make(map[string]flagrinfra.DiscoveredParameter),
		outputs:     make(map[string]flagrinfra.DiscoveredOutput),
		values:      make(map[string]any),
		varAttrRefs: make(map[string]VarAttrRefInfo),
	}
}

// NewBuilderFull creates a template builder from all discovered components.
func NewBuilderFull(
	resources map[string]flagrinfra.DiscoveredResource,
	parameters map[string]flagrinfra.DiscoveredParameter,
	outputs map[string]flagrinfra.DiscoveredOutput,
) *Builder {
	return &Builder{
		resources:   resources,
		parameters:  parameters,
		outputs:     outputs,
		values:      make(map[string]any),
		varAttrRefs: make(map[string]VarAttrRefInfo),
	}
}

// SetValue associates a serialized value with its logical name.
func (b *Builder) SetValue(name string, value any) {
	b.values[name] = value
}

// SetVarAttrRefs provides the AttrRef usage index from discovery, used
// to patch Fn::GetAtt expressions into serialized properties.
func (b *Builder) SetVarAttrRefs(refs map[string]VarAttrRefInfo) {
	b.varAttrRefs = refs
}

// SetDescription sets the template description.
func (b *Builder) SetDescription(desc string) {
	b.description = desc
}

// Build constructs the CloudFormation template.
func (b *Builder) Build() (*flagrinfra.Template, error) {
	// Get resources in dependency order
	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}

	template := &flagrinfra.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Description:              b.description,
		Resources:                make(map[string]flagrinfra.ResourceDef),
	}

	// Build Parameters section
	if len(b.parameters) > 0 {
		template.Parameters = make(map[string]flagrinfra.Parameter)
		for name := range b.parameters {
			if val, ok := b.values[name]; ok {
				template.Parameters[name] = b.serializeParameter(name, val)
			}
		}
	}

	for _, name := range order {
		res := b.resources[name]
		value := b.values[name]

		resourceType := cfResourceType(res.Type)
		if resourceType == "" {
			return nil, fmt.Errorf("unknown resource type: %s", res.Type)
		}

		props, err := b.serializeResource(name, value)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		// Patch Fn::GetAtt expressions where the declaration accessed
		// attribute fields of other resources.
		for _, ref := range b.resolveAttrRefs(name) {
			applyAttrRef(props, ref)
		}

		template.Resources[name] = flagrinfra.ResourceDef{
			Type:       resourceType,
			Properties: props,
		}
	}

	// Build Outputs section
	if len(b.outputs) > 0 {
		template.Outputs = make(map[string]flagrinfra.Output)
		for name, out := range b.outputs {
			val, ok := b.values[name]
			if !ok {
				continue
			}
			if valMap, isMap := val.(map[string]any); isMap {
				for _, ref := range out.AttrRefUsages {
					applyAttrRef(valMap, ref)
				}
			}
			template.Outputs[name] = b.serializeOutput(name, val)
		}
	}

	return template, nil
}

// resolveAttrRefs collects AttrRef usages for a resource, following variable
// references into property blocks declared as separate vars.
func (b *Builder) resolveAttrRefs(name string) []flagrinfra.AttrRefUsage {
	visited := make(map[string]bool)
	return b.resolveAttrRefsRecursive(name, "", visited)
}

func (b *Builder) resolveAttrRefsRecursive(varName, pathPrefix string, visited map[string]bool) []flagrinfra.AttrRefUsage {
	// Guard against reference cycles on the current path only; the same
	// property block may legitimately appear at several field paths within
	// one resource and needs its refs applied at each of them.
	if visited[varName] {
		return nil
	}
	visited[varName] = true
	defer delete(visited, varName)

	info, ok := b.varAttrRefs[varName]
	if !ok {
		// Fall back to the refs recorded on the resource itself
		if res, found := b.resources[varName]; found && pathPrefix == "" {
			return res.AttrRefUsages
		}
		return nil
	}

	var result []flagrinfra.AttrRefUsage

	for _, ref := range info.AttrRefs {
		fullPath := ref.FieldPath
		if pathPrefix != "" {
			fullPath = pathPrefix + "." + ref.FieldPath
		}
		result = append(result, flagrinfra.AttrRefUsage{
			ResourceName: ref.ResourceName,
			Attribute:    ref.Attribute,
			FieldPath:    fullPath,
		})
	}

	for fieldPath, refVarName := range info.VarRefs {
		// References to other resources and parameters serialize as Ref,
		// not inline, so their attribute usages don't land in this
		// resource's properties.
		if _, isResource := b.resources[refVarName]; isResource {
			continue
		}
		if _, isParameter := b.parameters[refVarName]; isParameter {
			continue
		}
		fullPath := fieldPath
		if pathPrefix != "" {
			fullPath = pathPrefix + "." + fieldPath
		}
		result = append(result, b.resolveAttrRefsRecursive(refVarName, fullPath, visited)...)
	}

	return result
}

// applyAttrRef writes a Fn::GetAtt expression at the recorded field path.
// Paths use named segments for struct fields and map keys, and numeric
// segments for slice elements.
func applyAttrRef(props map[string]any, ref flagrinfra.AttrRefUsage) {
	attr := ref.Attribute
	if override, ok := attrNameOverrides[attr]; ok {
		attr = override
	}
	getatt := map[string]any{
		"Fn::GetAtt": []any{ref.ResourceName, attr},
	}

	segments := strings.Split(ref.FieldPath, ".")
	applyPath(props, segments, getatt)
}

func applyPath(node any, segments []string, getatt map[string]any) bool {
	if len(segments) == 0 {
		return false
	}
	key := segments[0]

	switch v := node.(type) {
	case map[string]any:
		if len(segments) == 1 {
			v[key] = getatt
			return true
		}
		child, ok := v[key]
		if !ok {
			// Field was skipped during serialization (zero AttrRef in a
			// nested block), so create the path.
			child = make(map[string]any)
			v[key] = child
		}
		return applyPath(child, segments[1:], getatt)

	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(v) {
			return false
		}
		if len(segments) == 1 {
			v[i] = getatt
			return true
		}
		return applyPath(v[i], segments[1:], getatt)
	}

	return false
}

// serializeParameter converts a serialized Parameter map to the template format.
func (b *Builder) serializeParameter(name string, value any) flagrinfra.Parameter {
	valMap, ok := value.(map[string]any)
	if !ok {
		return flagrinfra.Parameter{Type: "String"}
	}

	param := flagrinfra.Parameter{}

	if t, ok := valMap["Type"].(string); ok {
		param.Type = t
	} else {
		param.Type = "String" // Default
	}
	if desc, ok := valMap["Description"].(string); ok {
		param.Description = desc
	}
	if def, ok := valMap["Default"]; ok {
		param.Default = def
	}
	if vals, ok := valMap["AllowedValues"].([]any); ok {
		param.AllowedValues = vals
	}
	if v, ok := valMap["NoEcho"].(bool); ok {
		param.NoEcho = v
	}

	return param
}

// serializeOutput converts a serialized Output map to the template format.
func (b *Builder) serializeOutput(name string, value any) flagrinfra.Output {
	valMap, ok := value.(map[string]any)
	if !ok {
		return flagrinfra.Output{}
	}

	output := flagrinfra.Output{}

	if desc, ok := valMap["Description"].(string); ok {
		output.Description = desc
	}
	if val, ok := valMap["Value"]; ok {
		output.Value = val
	}
	if expName, ok := valMap["ExportName"]; ok {
		output.Export = &struct {
			Name string `json:"Name" yaml:"Name"`
		}{Name: fmt.Sprintf("%v", expName)}
	}

	return output
}

// serializeResource converts a value to CloudFormation properties.
// Values arriving from the registry are already maps; anything else is
// normalized through JSON.
func (b *Builder) serializeResource(name string, value any) (map[string]any, error) {
	if props, ok := value.(map[string]any); ok {
		return props, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var props map[string]any
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, err
	}

	return props, nil
}

// topologicalSort returns resources in dependency order.
func (b *Builder) topologicalSort() ([]string, error) {
	// Build adjacency list
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, res := range b.resources {
		for _, dep := range res.Dependencies {
			if _, exists := b.resources[dep]; exists {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue) // Deterministic order

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue) // Keep sorted for determinism
			}
		}
	}

	// Check for cycles
	if len(result) != len(b.resources) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.resources[node].Dependencies {
			if _, exists := b.resources[dep]; !exists {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	for name := range b.resources {
		if !visited[name] {
			if findCycle(name) {
				break
			}
		}
	}

	if len(cycle) > 0 {
		msg := "circular dependency detected:\n"
		for i, name := range cycle {
			res := b.resources[name]
			msg += fmt.Sprintf("  %s (%s:%d)", name, res.File, res.Line)
			if i < len(cycle)-1 {
				msg += "\n    → "
			}
		}
		return errors.New(msg)
	}

	return errors.New("circular dependency detected")
}

// cfResourceType converts Go type to CloudFormation type.
// e.g., "ec2.VPC" -> "AWS::EC2::VPC"
func cfResourceType(goType string) string {
	parts := strings.SplitN(goType, ".", 2)
	if len(parts) != 2 {
		return ""
	}

	pkgName := parts[0]
	typeName := parts[1]

	serviceName := goPackageToCFService(pkgName)
	if serviceName == "" {
		return ""
	}

	return "AWS::" + serviceName + "::" + typeName
}

// goPackageToCFService maps Go package names to CloudFormation service names.
// This handles the case transformations needed for proper CloudFormation types.
func goPackageToCFService(pkg string) string {
	directMap := map[string]string{
		"ec2":                    "EC2",
		"ecs":                    "ECS",
		"elasticloadbalancingv2": "ElasticLoadBalancingV2",
		"iam":                    "IAM",
		"logs":                   "Logs",
		"rds":                    "RDS",
		"secretsmanager":         "SecretsManager",
	}

	if service, ok := directMap[pkg]; ok {
		return service
	}
	return ""
}

// ToJSON serializes the template to JSON.
func ToJSON(t *flagrinfra.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *flagrinfra.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
