// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package codegen

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/xeipuuv/gojsonschema"
)

// Config holds the loaded configuration
type Config struct {
	Resources []ResourceDefinition `json:"resources"`
	Tools     []ToolDefinition     `json:"tools"`
	Prompts   []PromptDefinition   `json:"prompts"`
}

// ResourceDefinition represents a resource to be generated
type ResourceDefinition struct {
	URI         string         `json:"uri"`
	Name        string         `json:"name"`
	Comment     string         `json:"comment,omitempty"`
	Description string         `json:"description"`
	MIMEType    string         `json:"mimeType"`
	Handler     string         `json:"handler"`
	Embedded    bool           `json:"embedded,omitempty"`
	Audience    []string       `json:"audience,omitempty"`
	Priority    *float64       `json:"priority,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}

// ToolDefinition represents a tool to be generated
type ToolDefinition struct {
	ConstName   string      `json:"constName"`
	Name        string      `json:"name"`
	Comment     string      `json:"comment"`
	Description string      `json:"description"`
	Handler     string      `json:"handler"`
	RoleConst   string      `json:"roleConst"`
	RoleName    string      `json:"roleName"`
	RoleComment string      `json:"roleComment"`
	WithConfig  bool        `json:"withConfig"`
	Params      []ToolParam `json:"params"`
}

// ToolParam represents a parameter for a tool
type ToolParam struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        string         `json:"type"` // string, number, boolean, array, object
	Required    bool           `json:"required"`
	Default     string         `json:"default,omitempty"` // Raw Go literal for the default value
	Enum        []string       `json:"enum,omitempty"`
	Minimum     *float64       `json:"minimum,omitempty"`
	Maximum     *float64       `json:"maximum,omitempty"`
	MinLength   *int           `json:"minLength,omitempty"`
	MaxLength   *int           `json:"maxLength,omitempty"`
	Pattern     string         `json:"pattern,omitempty"`
	Items       map[string]any `json:"items,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// PromptDefinition represents a prompt to be generated
type PromptDefinition struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Handler     string           `json:"handler"`
	Embedded    bool             `json:"embedded,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
	Audience    []string         `json:"audience,omitempty"`
	Priority    *float64         `json:"priority,omitempty"`
	Meta        map[string]any   `json:"meta,omitempty"`
}

// PromptArgument represents an argument accepted by a prompt
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// getCodegenDir returns the absolute path to the codegen directory
func getCodegenDir() string {
	_, currentFile, _, _ := runtime.Caller(0)
	return filepath.Dir(filepath.Dir(currentFile)) // Go up from internal/ to codegen/
}

// getTemplatePath returns the path to a template file
func getTemplatePath(templateName string) string {
	return filepath.Join(getCodegenDir(), "templates", templateName)
}

// getOutputPath returns the path to an output file
func getOutputPath(outputName string) string {
	return filepath.Join(getCodegenDir(), "..", "..", "src", "mcp-server", outputName)
}

// loadJSON loads a JSON file from the config directory into v
func loadJSON(filename string, v any) error {
	path := filepath.Join(getCodegenDir(), "config", filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filename, err)
	}
	return nil
}

// validateSchema validates a config file against its JSON schema
func validateSchema(schemaName, configName string) error {
	schemaPath := filepath.Join(getCodegenDir(), "config", "schemas", schemaName)
	configPath := filepath.Join(getCodegenDir(), "config", configName)

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaPath))
	documentLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(configPath))

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("loading schema %s: %w", schemaName, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%s does not match %s: %s", configName, schemaName, strings.Join(msgs, "; "))
	}
	return nil
}

// loadConfigFile validates a config file against its schema and unmarshals it into v
func loadConfigFile(configName, schemaName string, v any) error {
	if err := validateSchema(schemaName, configName); err != nil {
		return err
	}
	return loadJSON(configName, v)
}

// loadConfig loads the configuration from JSON files
func loadConfig() (*Config, error) {
	config := &Config{}

	// Load resources
	var resourcesWrapper struct {
		Resources []ResourceDefinition `json:"resources"`
	}
	if err := loadConfigFile("resources.json", "resources.schema.json", &resourcesWrapper); err != nil {
		return nil, fmt.Errorf("loading resources config: %w", err)
	}
	config.Resources = resourcesWrapper.Resources

	// Load tools
	var toolsWrapper struct {
		Tools []ToolDefinition `json:"tools"`
	}
	if err := loadConfigFile("tools.json", "tools.schema.json", &toolsWrapper); err != nil {
		return nil, fmt.Errorf("loading tools config: %w", err)
	}
	config.Tools = toolsWrapper.Tools

	// Load prompts
	var promptsWrapper struct {
		Prompts []PromptDefinition `json:"prompts"`
	}
	if err := loadConfigFile("prompts.json", "prompts.schema.json", &promptsWrapper); err != nil {
		return nil, fmt.Errorf("loading prompts config: %w", err)
	}
	config.Prompts = promptsWrapper.Prompts

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if err := validateResources(config.Resources); err != nil {
		return err
	}
	if err := validateTools(config.Tools); err != nil {
		return err
	}
	if err := validatePrompts(config.Prompts); err != nil {
		return err
	}
	return nil
}

// validateAnnotations validates audience roles and priority ranges shared by
// resource and prompt definitions
func validateAnnotations(audience []string, priority *float64, context string) error {
	for _, role := range audience {
		if role != "user" && role != "assistant" {
			return fmt.Errorf("%s: invalid audience role '%s', must be 'user' or 'assistant'", context, role)
		}
	}
	if priority != nil && (*priority < 0.0 || *priority > 10.0) {
		return fmt.Errorf("%s: priority must be between 0.0 and 10.0, got %f", context, *priority)
	}
	return nil
}

// validateResources validates resource definitions
func validateResources(resources []ResourceDefinition) error {
	resourceURIs := make(map[string]bool)
	for i, res := range resources {
		if res.URI == "" {
			return fmt.Errorf("resource %d: URI is required", i)
		}
		if res.Name == "" {
			return fmt.Errorf("resource %d: Name is required", i)
		}
		if res.Handler == "" {
			return fmt.Errorf("resource %d: Handler is required", i)
		}
		if resourceURIs[res.URI] {
			return fmt.Errorf("resource %d: duplicate URI '%s'", i, res.URI)
		}
		resourceURIs[res.URI] = true
		if err := validateAnnotations(res.Audience, res.Priority, fmt.Sprintf("resource %d", i)); err != nil {
			return err
		}
	}
	return nil
}

// validateTools validates tool definitions
func validateTools(tools []ToolDefinition) error {
	toolNames := make(map[string]bool)
	roleNames := make(map[string]bool)
	for i, tool := range tools {
		if err := validateTool(&tool, i, toolNames, roleNames); err != nil {
			return err
		}
	}
	return nil
}

// validateTool validates a single tool definition
func validateTool(tool *ToolDefinition, index int, toolNames, roleNames map[string]bool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool %d: Name is required", index)
	}
	if tool.ConstName == "" {
		return fmt.Errorf("tool %d: ConstName is required", index)
	}
	if tool.Handler == "" {
		return fmt.Errorf("tool %d: Handler is required", index)
	}
	if tool.RoleConst == "" {
		return fmt.Errorf("tool %d: RoleConst is required", index)
	}
	if toolNames[tool.Name] {
		return fmt.Errorf("tool %d: duplicate name '%s'", index, tool.Name)
	}
	if roleNames[tool.RoleName] {
		return fmt.Errorf("tool %d: duplicate role name '%s'", index, tool.RoleName)
	}
	toolNames[tool.Name] = true
	roleNames[tool.RoleName] = true

	return validateToolParams(tool.Params, index)
}

// validateToolParams validates tool parameters
func validateToolParams(params []ToolParam, toolIndex int) error {
	paramNames := make(map[string]bool)
	for j := range params {
		param := &params[j]
		if param.Name == "" {
			return fmt.Errorf("tool %d param %d: Name is required", toolIndex, j)
		}
		if param.Type == "" {
			return fmt.Errorf("tool %d param %d: Type is required", toolIndex, j)
		}
		if !validParamType(param.Type) {
			return fmt.Errorf("tool %d param %d: invalid type '%s', must be string, number, boolean, array, or object", toolIndex, j, param.Type)
		}
		if paramNames[param.Name] {
			return fmt.Errorf("tool %d param %d: duplicate parameter name '%s'", toolIndex, j, param.Name)
		}
		paramNames[param.Name] = true
		if err := validateParamConstraints(param, toolIndex, j); err != nil {
			return err
		}
	}
	return nil
}

// validParamType reports whether t is a supported parameter type
func validParamType(t string) bool {
	switch t {
	case "string", "number", "boolean", "array", "object":
		return true
	}
	return false
}

// validateParamConstraints validates JSON schema constraints on a parameter
// against its declared type
func validateParamConstraints(param *ToolParam, toolIndex, paramIndex int) error {
	prefix := fmt.Sprintf("tool %d param %d", toolIndex, paramIndex)

	for _, value := range param.Enum {
		switch param.Type {
		case "number":
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("%s: enum value '%s' is not a valid number", prefix, value)
			}
		case "boolean":
			if _, err := strconv.ParseBool(value); err != nil {
				return fmt.Errorf("%s: enum value '%s' is not a valid boolean", prefix, value)
			}
		}
	}

	if (param.MinLength != nil || param.MaxLength != nil) && param.Type != "string" {
		return fmt.Errorf("%s: minLength/maxLength constraints are only valid for string type", prefix)
	}
	if param.MinLength != nil && param.MaxLength != nil && *param.MinLength > *param.MaxLength {
		return fmt.Errorf("%s: minLength (%d) cannot be greater than maxLength (%d)", prefix, *param.MinLength, *param.MaxLength)
	}

	if (param.Minimum != nil || param.Maximum != nil) && param.Type != "number" {
		return fmt.Errorf("%s: minimum/maximum constraints are only valid for number type", prefix)
	}
	if param.Minimum != nil && param.Maximum != nil && *param.Minimum > *param.Maximum {
		return fmt.Errorf("%s: minimum (%f) cannot be greater than maximum (%f)", prefix, *param.Minimum, *param.Maximum)
	}

	if param.Pattern != "" && param.Type != "string" {
		return fmt.Errorf("%s: pattern constraint is only valid for string type", prefix)
	}
	if param.Items != nil && param.Type != "array" {
		return fmt.Errorf("%s: items constraint is only valid for array type", prefix)
	}
	if param.Properties != nil && param.Type != "object" {
		return fmt.Errorf("%s: properties constraint is only valid for object type", prefix)
	}

	return nil
}

// validatePrompts validates prompt definitions
func validatePrompts(prompts []PromptDefinition) error {
	promptNames := make(map[string]bool)
	for i, prompt := range prompts {
		if prompt.Name == "" {
			return fmt.Errorf("prompt %d: Name is required", i)
		}
		if prompt.Handler == "" {
			return fmt.Errorf("prompt %d: Handler is required", i)
		}
		if promptNames[prompt.Name] {
			return fmt.Errorf("prompt %d: duplicate name '%s'", i, prompt.Name)
		}
		promptNames[prompt.Name] = true
		if err := validateAnnotations(prompt.Audience, prompt.Priority, fmt.Sprintf("prompt %d", i)); err != nil {
			return err
		}
		if err := validatePromptArguments(prompt.Arguments, i); err != nil {
			return err
		}
	}
	return nil
}

// validatePromptArguments validates prompt argument definitions
func validatePromptArguments(arguments []PromptArgument, promptIndex int) error {
	argNames := make(map[string]bool)
	for j, arg := range arguments {
		if arg.Name == "" {
			return fmt.Errorf("prompt %d argument %d: Name is required", promptIndex, j)
		}
		if argNames[arg.Name] {
			return fmt.Errorf("prompt %d argument %d: duplicate argument name '%s'", promptIndex, j, arg.Name)
		}
		argNames[arg.Name] = true
	}
	return nil
}

// toGoMap renders a map as a Go map[string]any literal with sorted keys,
// suitable for embedding in generated source
func toGoMap(m map[string]any) string {
	if len(m) == 0 {
		return "nil"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("map[string]any{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %s", k, formatGoValue(m[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

// formatGoValue renders a single value as a Go literal
func formatGoValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatGoValue(item)
		}
		return "[]any{" + strings.Join(parts, ", ") + "}"
	case map[string]any:
		return toGoMap(val)
	default:
		return fmt.Sprintf("%q", fmt.Sprintf("%v", v))
	}
}

// GenerateResources generates the resources.go file for the MCP server
func GenerateResources() error {
	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	templatePath := getTemplatePath("resources.go.tmpl")
	outputPath := getOutputPath("resources.go")

	return generateFile(templatePath, outputPath, config)
}

// GenerateTools generates the tools.go file for the MCP server
func GenerateTools() error {
	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	templatePath := getTemplatePath("tools.go.tmpl")
	outputPath := getOutputPath("tools.go")

	return generateFile(templatePath, outputPath, config)
}

// GeneratePrompts generates the prompts.go file for the MCP server
func GeneratePrompts() error {
	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	templatePath := getTemplatePath("prompts.go.tmpl")
	outputPath := getOutputPath("prompts.go")

	return generateFile(templatePath, outputPath, config)
}

// generateFile generates a file using a template
func generateFile(templatePath, outputPath string, config *Config) error {
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(template.FuncMap{
		"toGoMap":  toGoMap,
		"goValue":  formatGoValue,
		"intVal":   func(p *int) int { return *p },
		"floatVal": func(p *float64) float64 { return *p },
	}).ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("parsing template from %s: %w", templatePath, err)
	}

	var code bytes.Buffer

	// Header
	writeHeader(&code)

	// Package and imports
	code.WriteString("package mcpserver\n\n")
	code.WriteString("import (\n")
	code.WriteString("\t\"github.com/mark3labs/mcp-go/mcp\"\n")
	code.WriteString(")\n\n")

	// Execute template
	if err := tmpl.Execute(&code, config); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	return writeGeneratedFile(outputPath, code.Bytes())
}

func writeHeader(code *bytes.Buffer) {
	code.WriteString("// Copyright (c) 2025 H0llyW00dzZ All rights reserved.\n")
	code.WriteString("//\n")
	code.WriteString("// By accessing or using this software, you agree to be bound by the terms\n")
	code.WriteString("// of the License Agreement, which you can find at LICENSE files.\n\n")
	code.WriteString("// Code generated by go generate; DO NOT EDIT.\n")
	code.WriteString("// This file is generated from tools/codegen/internal/codegen.go\n\n")
}

func writeGeneratedFile(filename string, content []byte) error {
	// Format the generated code
	formatted, err := format.Source(content)
	if err != nil {
		return fmt.Errorf("formatting code: %w", err)
	}

	// Write to the generated file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	_, err = writer.Write(formatted)
	if err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing file: %w", err)
	}

	fmt.Printf("Generated %s successfully\n", filename)
	return nil
}
