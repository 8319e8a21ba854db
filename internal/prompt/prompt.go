// Package prompt wraps user messages in the instruction template sent to the backend.
package prompt

import (
	"fmt"
	"strings"
)

// Slot is the placeholder replaced by the user message.
const Slot = "{query}"

// DefaultTemplate asks the model for markdown-formatted code answers.
const DefaultTemplate = `You are a helpful coding assistant. When providing code examples:
1. Always use proper markdown formatting with language-specific syntax highlighting
2. Use triple backticks with the language name for code blocks (e.g. ` + "```" + `python)
3. Format code in a clean, readable way with proper indentation
4. Use VSCode-style syntax highlighting conventions

User Query: {query}
`

// Template is a fixed string with a single query slot.
type Template struct {
	before, after string
}

// Parse splits text around its query slot. Exactly one slot is required.
func Parse(text string) (Template, error) {
	switch n := strings.Count(text, Slot); n {
	case 1:
	case 0:
		return Template{}, fmt.Errorf("prompt template has no %s slot", Slot)
	default:
		return Template{}, fmt.Errorf("prompt template has %d %s slots, want 1", n, Slot)
	}
	i := strings.Index(text, Slot)
	return Template{before: text[:i], after: text[i+len(Slot):]}, nil
}

// Default returns the built-in template.
func Default() Template {
	t, _ := Parse(DefaultTemplate)
	return t
}

// Format embeds query verbatim into the slot.
func (t Template) Format(query string) string {
	var b strings.Builder
	b.Grow(len(t.before) + len(query) + len(t.after))
	b.WriteString(t.before)
	b.WriteString(query)
	b.WriteString(t.after)
	return b.String()
}
