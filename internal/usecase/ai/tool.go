package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ringkas/internal/domain/entity"
)

// ToolFunc executes a tool with string arguments keyed by parameter name.
// Failures are reported in-band through ToolInvocationResult.Failed.
type ToolFunc func(ctx context.Context, args map[string]string) entity.ToolInvocationResult

// Parameter is a single string argument of a tool.
type Parameter struct {
	Name        string
	Description string
	Required    bool
}

// Tool is a named function the model may call mid-generation.
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter
	Invoke      ToolFunc
}

// PropertySchema describes one tool argument.
type PropertySchema struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolSchema is the JSON schema object of a tool's arguments.
type ToolSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// InputSchema renders the tool parameters as a JSON schema object.
func (t Tool) InputSchema() ToolSchema {
	schema := ToolSchema{
		Type:       "object",
		Properties: make(map[string]PropertySchema, len(t.Parameters)),
		Required:   make([]string, 0, len(t.Parameters)),
	}
	for _, p := range t.Parameters {
		schema.Properties[p.Name] = PropertySchema{Type: "string", Description: p.Description}
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

// ToolInvocation records one executed tool call.
type ToolInvocation struct {
	Name   string
	Args   map[string]string
	Result entity.ToolInvocationResult
}

// ToolChoiceMode controls whether and which tool the model must call.
type ToolChoiceMode string

const (
	ToolChoiceAuto ToolChoiceMode = "auto"
	ToolChoiceNone ToolChoiceMode = "none"
	ToolChoiceTool ToolChoiceMode = "tool"
)

// ToolChoice is "auto", "none" or pinned to a single named tool.
type ToolChoice struct {
	Mode ToolChoiceMode
	Name string
}

// AutoToolChoice leaves tool selection to the model.
func AutoToolChoice() ToolChoice { return ToolChoice{Mode: ToolChoiceAuto} }

// PinnedToolChoice forces the model to call the named tool on its first turn.
func PinnedToolChoice(name string) ToolChoice { return ToolChoice{Mode: ToolChoiceTool, Name: name} }

// String renders the choice as "auto", "none" or "tool:<name>".
func (c ToolChoice) String() string {
	switch c.Mode {
	case ToolChoiceTool:
		return "tool:" + c.Name
	case ToolChoiceNone:
		return string(ToolChoiceNone)
	default:
		return string(ToolChoiceAuto)
	}
}

// ParseToolChoice accepts "auto", "none", "tool:<name>" and the empty string (auto).
func ParseToolChoice(s string) (ToolChoice, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == string(ToolChoiceAuto):
		return AutoToolChoice(), nil
	case s == string(ToolChoiceNone):
		return ToolChoice{Mode: ToolChoiceNone}, nil
	case strings.HasPrefix(s, "tool:") && len(s) > len("tool:"):
		return PinnedToolChoice(strings.TrimPrefix(s, "tool:")), nil
	default:
		return ToolChoice{}, fmt.Errorf("invalid tool choice %q (expected auto, none or tool:<name>)", s)
	}
}

// FindTool looks a tool up by name.
func FindTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// ExecuteTool decodes the raw JSON arguments produced by the model and runs
// the matching tool. Unknown tools and undecodable arguments become failed
// invocations so the model can be told about them.
func ExecuteTool(ctx context.Context, tools []Tool, name string, rawArgs []byte) ToolInvocation {
	inv := ToolInvocation{Name: name, Args: map[string]string{}}

	tool, ok := FindTool(tools, name)
	if !ok || tool.Invoke == nil {
		inv.Result = entity.ToolInvocationResult{Output: fmt.Sprintf("unknown tool %q", name), Failed: true}
		return inv
	}

	if len(rawArgs) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(rawArgs, &decoded); err != nil {
			inv.Result = entity.ToolInvocationResult{Output: "invalid tool arguments: " + err.Error(), Failed: true}
			return inv
		}
		for k, v := range decoded {
			inv.Args[k] = stringify(v)
		}
	}

	inv.Result = tool.Invoke(ctx, inv.Args)
	return inv
}

// stringify flattens a decoded JSON value into the string form tools expect.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool, float64:
		return fmt.Sprint(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
