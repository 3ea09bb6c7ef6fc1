package mapper

import "strings"

// ExtractADFText flattens an Atlassian Document Format tree (as decoded by
// encoding/json) into plain text. Text nodes contribute their text verbatim,
// content lists are walked in order, and every paragraph is followed by a
// newline. Unknown shapes contribute nothing.
func ExtractADFText(doc any) string {
	var b strings.Builder
	walkADF(doc, &b)
	return strings.TrimSpace(b.String())
}

func walkADF(node any, b *strings.Builder) {
	switch n := node.(type) {
	case map[string]any:
		if text, ok := n["text"].(string); ok {
			b.WriteString(text)
		}
		if content, ok := n["content"].([]any); ok {
			for _, child := range content {
				walkADF(child, b)
			}
			if n["type"] == "paragraph" {
				b.WriteByte('\n')
			}
		}
	case []any:
		for _, child := range n {
			walkADF(child, b)
		}
	}
}
