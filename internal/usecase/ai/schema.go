package ai

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	textutil "ringkas/internal/utils/text"
)

// Field is one string property of a structured output object.
type Field struct {
	Name        string
	Description string
	Required    bool
	// Enum restricts the value to a fixed set when non-empty.
	Enum []string
}

// Schema declares the object the model must return.
type Schema struct {
	Name   string
	Fields []Field
}

// Instruction tells a model without native structured output how to shape its reply.
func (s *Schema) Instruction() string {
	var b strings.Builder
	b.WriteString("Balas HANYA dengan satu objek JSON yang valid, tanpa teks lain dan tanpa blok kode, dengan bidang berikut:\n")
	for _, f := range s.Fields {
		req := "opsional"
		if f.Required {
			req = "wajib"
		}
		fmt.Fprintf(&b, "- %q (string, %s): %s", f.Name, req, f.Description)
		if len(f.Enum) > 0 {
			fmt.Fprintf(&b, " Nilai yang diizinkan: %s.", strings.Join(f.Enum, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ParseStructured finds the first valid JSON object in text and maps the
// schema fields onto strings. Null and missing optional fields are left out.
// A missing required field, or no object at all, yields ErrNoStructuredOutput.
func ParseStructured(text string, s *Schema) (map[string]string, error) {
	raw, ok := textutil.FindJSONObject(text)
	if !ok {
		return nil, ErrNoStructuredOutput
	}
	if !gjson.Parse(raw).IsObject() {
		return nil, fmt.Errorf("%w: not an object", ErrNoStructuredOutput)
	}

	out := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		v := gjson.Get(raw, f.Name)
		if !v.Exists() || v.Type == gjson.Null {
			if f.Required {
				return nil, fmt.Errorf("%w: field %q", ErrNoStructuredOutput, f.Name)
			}
			continue
		}
		out[f.Name] = resultString(v)
	}
	return out, nil
}

// resultString returns string values unquoted and anything else as raw JSON.
func resultString(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}
