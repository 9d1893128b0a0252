package ai

import (
	"context"
	"strings"

	"github.com/qri-io/jsonschema"
)

// extractJSON returns the substring from the first '{' to the last '}' in
// the input. This is a pragmatic approach to handle model outputs that
// wrap JSON in text or markdown.
func extractJSON(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

// extractJSONArray does the same for a top-level JSON array.
func extractJSONArray(s string) string {
	first := strings.Index(s, "[")
	last := strings.LastIndex(s, "]")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

// compiledSchema wraps a parsed jsonschema document.
type compiledSchema struct {
	rs *jsonschema.Schema
}

func compileSchema(raw string) (*compiledSchema, error) {
	rs := &jsonschema.Schema{}
	if err := rs.UnmarshalJSON([]byte(raw)); err != nil {
		return nil, err
	}
	return &compiledSchema{rs: rs}, nil
}

// validate returns a human-readable description of schema violations, or
// "" when the document conforms.
func (c *compiledSchema) validate(ctx context.Context, doc []byte) (string, error) {
	verrs, err := c.rs.ValidateBytes(ctx, doc)
	if err != nil {
		return "", err
	}
	if len(verrs) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, v := range verrs {
		sb.WriteString(v.Message)
		sb.WriteString("; ")
	}
	return sb.String(), nil
}
