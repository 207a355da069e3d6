package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Config holds all configuration
type Config struct {
	Models         []Model         `hcl:"model,block"`
	Agents         []Agent         `hcl:"agent,block"`
	Variables      []Variable      `hcl:"variable,block"`
	CustomTools    []CustomTool    `hcl:"tool,block"`
	Memories       []Memory        `hcl:"memory,block"`
	KnowledgeBases []KnowledgeBase `hcl:"knowledge_base,block"`
	Storage        *StorageConfig  `hcl:"storage,block"`
	Server         *ServerConfig   `hcl:"server,block"`

	// ResolvedVars holds the resolved variable values for runtime use
	ResolvedVars map[string]cty.Value `hcl:"-"`
}

func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadAndValidate loads the config and validates all components
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all config components are valid
func (c *Config) Validate() error {
	for _, m := range c.Models {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("model '%s': %w", m.Name, err)
		}
	}

	for _, v := range c.Variables {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("variable '%s': %w", v.Name, err)
		}
	}

	for _, a := range c.Agents {
		if err := a.Validate(); err != nil {
			return err
		}
	}

	for _, m := range c.Memories {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	for _, k := range c.KnowledgeBases {
		if err := k.Validate(); err != nil {
			return err
		}
	}

	if c.Storage != nil {
		if err := c.Storage.Validate(); err != nil {
			return err
		}
	}

	if c.Server != nil {
		if err := c.Server.Validate(); err != nil {
			return err
		}
	}

	// Validate custom tools; duplicate names would shadow each other in
	// the registry, so reject them here rather than at agent build time.
	seenTools := make(map[string]bool)
	for _, t := range c.CustomTools {
		if err := t.Validate(); err != nil {
			return err
		}
		if seenTools[t.Name] {
			return fmt.Errorf("tool '%s': duplicate tool name", t.Name)
		}
		seenTools[t.Name] = true
	}

	// Build valid tool references for validation
	// Format: builtin.{namespace}.{tool} for builtins, tools.{name} for custom tools
	validToolRefs := make(map[string]bool)

	for namespace, tools := range BuiltinTools {
		for _, toolName := range tools {
			validToolRefs[fmt.Sprintf("builtin.%s.%s", namespace, toolName)] = true
		}
		// "all" marker loads every tool from the namespace
		validToolRefs[fmt.Sprintf("builtin.%s.all", namespace)] = true
	}

	for _, t := range c.CustomTools {
		validToolRefs[fmt.Sprintf("tools.%s", t.Name)] = true
		validToolRefs[t.Name] = true // legacy bare name
	}

	memoryNames := make(map[string]bool)
	for _, m := range c.Memories {
		memoryNames[m.Name] = true
	}
	kbNames := make(map[string]bool)
	for _, k := range c.KnowledgeBases {
		kbNames[k.Name] = true
	}

	// Validate tool and attachment references in agents
	for _, a := range c.Agents {
		for _, toolRef := range a.Tools {
			if !validToolRefs[toolRef] {
				return fmt.Errorf("agent '%s': unknown tool '%s'. Available tools: %v", a.Name, toolRef, getToolNames(validToolRefs))
			}
		}

		if a.Memory != "" && !memoryNames[a.Memory] {
			return fmt.Errorf("agent '%s': unknown memory '%s'", a.Name, a.Memory)
		}
		if a.KnowledgeBase != "" && !kbNames[a.KnowledgeBase] {
			return fmt.Errorf("agent '%s': unknown knowledge_base '%s'", a.Name, a.KnowledgeBase)
		}

		// Memory and kb tools are wired to the agent's attachments,
		// so requesting them without one is a config error.
		if a.UsesMemoryTools() && a.Memory == "" {
			return fmt.Errorf("agent '%s': builtin.memory tools require a memory attribute", a.Name)
		}
		if a.UsesKBTools() && a.KnowledgeBase == "" {
			return fmt.Errorf("agent '%s': builtin.kb tools require a knowledge_base attribute", a.Name)
		}
	}

	return nil
}

// getToolNames returns the tool names from the map
func getToolNames(tools map[string]bool) []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	return names
}

func LoadFile(filename string) (*Config, error) {
	return loadFromFiles([]string{filename})
}

func LoadDir(dir string) (*Config, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.hcl"))
	if err != nil {
		return nil, err
	}
	return loadFromFiles(files)
}

// parsedBlocks holds all blocks extracted from a file in one pass
type parsedBlocks struct {
	Variables      []*hcl.Block
	Models         []*hcl.Block
	Agents         []*hcl.Block
	Tools          []*hcl.Block
	Memories       []*hcl.Block
	KnowledgeBases []*hcl.Block
	Storage        []*hcl.Block
	Server         []*hcl.Block
}

// loadFromFiles implements staged loading: variables → services → models → tools → agents
func loadFromFiles(files []string) (*Config, error) {
	// Parse all files and extract all block types in a single pass
	parser := hclparse.NewParser()
	var allParsedBlocks []parsedBlocks

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("[1] parse %s: %w", file, diags)
		}

		content, _, diags := hclFile.Body.PartialContent(&hcl.BodySchema{
			Blocks: []hcl.BlockHeaderSchema{
				{Type: "variable", LabelNames: []string{"name"}},
				{Type: "model", LabelNames: []string{"name"}},
				{Type: "agent", LabelNames: []string{"name"}},
				{Type: "tool", LabelNames: []string{"name"}},
				{Type: "memory", LabelNames: []string{"name"}},
				{Type: "knowledge_base", LabelNames: []string{"name"}},
				{Type: "storage"},
				{Type: "server"},
			},
		})
		if diags.HasErrors() {
			return nil, fmt.Errorf("[2] partial content %s: %w", file, diags)
		}

		var pb parsedBlocks
		for _, block := range content.Blocks {
			switch block.Type {
			case "variable":
				pb.Variables = append(pb.Variables, block)
			case "model":
				pb.Models = append(pb.Models, block)
			case "agent":
				pb.Agents = append(pb.Agents, block)
			case "tool":
				pb.Tools = append(pb.Tools, block)
			case "memory":
				pb.Memories = append(pb.Memories, block)
			case "knowledge_base":
				pb.KnowledgeBases = append(pb.KnowledgeBases, block)
			case "storage":
				pb.Storage = append(pb.Storage, block)
			case "server":
				pb.Server = append(pb.Server, block)
			}
		}
		allParsedBlocks = append(allParsedBlocks, pb)
	}

	// Stage 1: Load variables (no context needed)
	var allVars []Variable
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Variables {
			var v Variable
			v.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, nil, &v)
			if diags.HasErrors() {
				return nil, fmt.Errorf("[3] decode variable %s: %w", v.Name, diags)
			}
			allVars = append(allVars, v)
		}
	}

	// Build vars context
	varsCtx, resolvedVars := buildVarsContext(allVars)

	// Stage 2: Load service blocks (memory, knowledge_base, storage, server)
	// with vars context. These are plain attribute blocks.
	var allMemories []Memory
	var allKBs []KnowledgeBase
	var storage *StorageConfig
	var server *ServerConfig

	for _, pb := range allParsedBlocks {
		for _, block := range pb.Memories {
			var m Memory
			m.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, varsCtx, &m)
			if diags.HasErrors() {
				return nil, fmt.Errorf("decode memory %s: %w", m.Name, diags)
			}
			m.Defaults()
			allMemories = append(allMemories, m)
		}
		for _, block := range pb.KnowledgeBases {
			var k KnowledgeBase
			k.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, varsCtx, &k)
			if diags.HasErrors() {
				return nil, fmt.Errorf("decode knowledge_base %s: %w", k.Name, diags)
			}
			k.Defaults()
			allKBs = append(allKBs, k)
		}
		for _, block := range pb.Storage {
			if storage != nil {
				return nil, fmt.Errorf("multiple storage blocks defined")
			}
			var s StorageConfig
			diags := gohcl.DecodeBody(block.Body, varsCtx, &s)
			if diags.HasErrors() {
				return nil, fmt.Errorf("decode storage: %w", diags)
			}
			s.Defaults()
			storage = &s
		}
		for _, block := range pb.Server {
			if server != nil {
				return nil, fmt.Errorf("multiple server blocks defined")
			}
			var s ServerConfig
			diags := gohcl.DecodeBody(block.Body, varsCtx, &s)
			if diags.HasErrors() {
				return nil, fmt.Errorf("decode server: %w", diags)
			}
			s.Defaults()
			server = &s
		}
	}

	// Build builtin tools context for HCL evaluation
	builtinCtx := buildBuiltinContext(varsCtx)

	// Stage 3: Load models (with vars + builtin context)
	var allModels []Model
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Models {
			var m Model
			m.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, builtinCtx, &m)
			if diags.HasErrors() {
				return nil, diags
			}
			allModels = append(allModels, m)
		}
	}

	// Build models context (add to builtin context)
	modelsCtx := buildModelsContext(builtinCtx, allModels)

	// Stage 4: Load custom tools (with vars + models + builtin context, plus dynamic field parsing)
	var allTools []CustomTool
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Tools {
			tool, err := parseToolBlock(block, modelsCtx)
			if err != nil {
				return nil, err
			}
			allTools = append(allTools, *tool)
		}
	}

	// Build tools context (add to models context)
	fullCtx := buildToolsContext(modelsCtx, allTools)

	// Stage 5: Load agents (with vars + models + tools context)
	var allAgents []Agent
	for _, pb := range allParsedBlocks {
		for _, block := range pb.Agents {
			var a Agent
			a.Name = block.Labels[0]
			diags := gohcl.DecodeBody(block.Body, fullCtx, &a)
			if diags.HasErrors() {
				return nil, diags
			}
			allAgents = append(allAgents, a)
		}
	}

	return &Config{
		Variables:      allVars,
		Models:         allModels,
		Agents:         allAgents,
		CustomTools:    allTools,
		Memories:       allMemories,
		KnowledgeBases: allKBs,
		Storage:        storage,
		Server:         server,
		ResolvedVars:   resolvedVars,
	}, nil
}

// GetMemory returns the memory block with the given name
func (c *Config) GetMemory(name string) *Memory {
	for i := range c.Memories {
		if c.Memories[i].Name == name {
			return &c.Memories[i]
		}
	}
	return nil
}

// GetKnowledgeBase returns the knowledge_base block with the given name
func (c *Config) GetKnowledgeBase(name string) *KnowledgeBase {
	for i := range c.KnowledgeBases {
		if c.KnowledgeBases[i].Name == name {
			return &c.KnowledgeBases[i]
		}
	}
	return nil
}

// GetAgent returns the agent block with the given name
func (c *Config) GetAgent(name string) *Agent {
	for i := range c.Agents {
		if c.Agents[i].Name == name {
			return &c.Agents[i]
		}
	}
	return nil
}

// inputFieldBlock is used for parsing input field blocks
type inputFieldBlock struct {
	Name        string `hcl:"name,label"`
	Type        string `hcl:"type"`
	Description string `hcl:"description,optional"`
	Required    bool   `hcl:"required,optional"`
}

// inputsBlock is used for parsing the inputs block
type inputsBlock struct {
	Fields []inputFieldBlock `hcl:"field,block"`
}

// parseToolBlock parses a single tool block with dynamic fields based on implemented tool schema
func parseToolBlock(block *hcl.Block, baseCtx *hcl.EvalContext) (*CustomTool, error) {
	toolName := block.Labels[0]

	// Parse the tool block content: static fields (implements, description) + inputs block + dynamic fields
	toolContent, remainBody, diags := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "implements", Required: true},
			{Name: "description"},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "inputs"},
		},
	})
	if diags.HasErrors() {
		return nil, diags
	}

	// Get implements attribute
	implementsAttr := toolContent.Attributes["implements"]
	implementsVal, diags := implementsAttr.Expr.Value(baseCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	implements := implementsVal.AsString()

	// Get optional description
	var description string
	if descAttr, ok := toolContent.Attributes["description"]; ok {
		descVal, diags := descAttr.Expr.Value(baseCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		description = descVal.AsString()
	}

	tool := &CustomTool{
		Name:        toolName,
		Implements:  implements,
		Description: description,
		Inputs:      nil,
		FieldExprs:  make(map[string]hcl.Expression),
	}

	// Get the implemented tool's schema
	implTool := tool.GetImplementedTool()
	if implTool == nil {
		return nil, fmt.Errorf("tool '%s': unknown implemented tool '%s'", toolName, implements)
	}

	// Parse inputs block if present
	for _, blk := range toolContent.Blocks {
		if blk.Type == "inputs" {
			var parsedInputs inputsBlock
			diags := gohcl.DecodeBody(blk.Body, nil, &parsedInputs)
			if diags.HasErrors() {
				return nil, diags
			}

			tool.Inputs = &InputsSchema{}
			for _, f := range parsedInputs.Fields {
				tool.Inputs.Fields = append(tool.Inputs.Fields, InputField{
					Name:        f.Name,
					Type:        f.Type,
					Description: f.Description,
					Required:    f.Required,
				})
			}
		}
	}

	// Build eval context with inputs placeholder to validate expressions
	inputsType := tool.BuildInputsCtyType()
	toolCtx := BuildFieldsEvalContext(baseCtx, inputsType)

	// Get the remaining attributes (dynamic fields from the implemented tool's schema)
	implSchema := implTool.ToolPayloadSchema()
	var attrSchemas []hcl.AttributeSchema
	for propName := range implSchema.Properties {
		attrSchemas = append(attrSchemas, hcl.AttributeSchema{Name: propName})
	}

	remainContent, _, diags := remainBody.PartialContent(&hcl.BodySchema{
		Attributes: attrSchemas,
	})
	if diags.HasErrors() {
		return nil, diags
	}

	for attrName, attr := range remainContent.Attributes {
		// Verify this is a valid field from the implemented tool's schema
		if _, ok := implSchema.Properties[attrName]; !ok {
			return nil, fmt.Errorf("tool '%s': unknown field '%s' - not part of '%s' tool schema", toolName, attrName, implements)
		}

		// Validate the expression can be evaluated (with unknown inputs)
		_, diags := attr.Expr.Value(toolCtx)
		if diags.HasErrors() {
			return nil, diags
		}

		// Store the expression for runtime evaluation
		tool.FieldExprs[attrName] = attr.Expr
	}

	return tool, nil
}

// buildVarsContext creates context with just vars
func buildVarsContext(vars []Variable) (*hcl.EvalContext, map[string]cty.Value) {
	varsMap := make(map[string]cty.Value)
	fileVars, _ := LoadVarsFromFile()
	for _, v := range vars {
		if val, ok := fileVars[v.Name]; ok {
			varsMap[v.Name] = cty.StringVal(val)
		} else if v.Default != "" {
			varsMap[v.Name] = cty.StringVal(v.Default)
		} else {
			varsMap[v.Name] = cty.StringVal("")
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"vars": cty.ObjectVal(varsMap),
		},
	}, varsMap
}

// buildBuiltinContext adds the builtin tools namespace to existing context.
// Creates builtin.{namespace}.{tool} references plus an "all" marker per namespace.
func buildBuiltinContext(ctx *hcl.EvalContext) *hcl.EvalContext {
	builtinMap := make(map[string]cty.Value)

	for namespace, tools := range BuiltinTools {
		toolsMap := make(map[string]cty.Value)
		for _, toolName := range tools {
			toolsMap[toolName] = cty.StringVal(fmt.Sprintf("builtin.%s.%s", namespace, toolName))
		}
		toolsMap["all"] = cty.StringVal(fmt.Sprintf("builtin.%s.all", namespace))
		builtinMap[namespace] = cty.ObjectVal(toolsMap)
	}

	newVars := make(map[string]cty.Value)
	for k, v := range ctx.Variables {
		newVars[k] = v
	}
	newVars["builtin"] = cty.ObjectVal(builtinMap)

	return &hcl.EvalContext{
		Variables: newVars,
	}
}

// buildModelsContext adds models to existing context
func buildModelsContext(ctx *hcl.EvalContext, models []Model) *hcl.EvalContext {
	modelsMap := make(map[string]cty.Value)
	for _, m := range models {
		providerModels := make(map[string]cty.Value)
		for _, modelKey := range m.AllowedModels {
			providerModels[modelKey] = cty.StringVal(modelKey)
		}
		modelsMap[m.Name] = cty.ObjectVal(providerModels)
	}

	newVars := make(map[string]cty.Value)
	for k, v := range ctx.Variables {
		newVars[k] = v
	}
	newVars["models"] = cty.ObjectVal(modelsMap)

	return &hcl.EvalContext{
		Variables: newVars,
	}
}

// buildToolsContext adds the custom tools namespace to existing context
func buildToolsContext(ctx *hcl.EvalContext, customTools []CustomTool) *hcl.EvalContext {
	toolsMap := make(map[string]cty.Value)

	for _, t := range customTools {
		toolsMap[t.Name] = cty.StringVal(fmt.Sprintf("tools.%s", t.Name))
	}

	newVars := make(map[string]cty.Value)
	for k, v := range ctx.Variables {
		newVars[k] = v
	}
	newVars["tools"] = cty.ObjectVal(toolsMap)

	return &hcl.EvalContext{
		Variables: newVars,
	}
}
