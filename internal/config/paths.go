package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PromptTemplateText returns the template text from the inline setting or the
// template file. Empty means the built-in template.
func (c Config) PromptTemplateText() (string, error) {
	if c.PromptTemplateFile == "" {
		return c.PromptTemplate, nil
	}
	p, err := ExpandHome(c.PromptTemplateFile)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	return string(b), nil
}
