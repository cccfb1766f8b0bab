// Package template manages header-template definitions for the
// segmenter. Municipal chambers format their autógrafo page headers
// differently, so operators can supply templates as YAML files instead
// of patching the default recognizer.
package template

import (
	"fmt"
	"regexp"

	"github.com/Joaovcitor/autografo/pkg/segment"
)

// HeaderTemplate is one named header recognizer. Pattern is a regular
// expression run against each accent-folded line; its first capture
// group, when present, is the act number.
type HeaderTemplate struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Pattern     string `yaml:"pattern" json:"pattern"`

	compiled *regexp.Regexp
}

// Compile validates and compiles the pattern. A template must compile
// before registration; the segmenter's silent fallback applies only to
// ad-hoc caller patterns, not registry entries.
func (t *HeaderTemplate) Compile() error {
	if t.Name == "" {
		return fmt.Errorf("template has no name")
	}
	if t.Pattern == "" {
		return fmt.Errorf("template %q has no pattern", t.Name)
	}
	compiled, err := regexp.Compile(t.Pattern)
	if err != nil {
		return fmt.Errorf("compiling template %q: %w", t.Name, err)
	}
	t.compiled = compiled
	return nil
}

// Regexp returns the compiled pattern, or nil before Compile.
func (t *HeaderTemplate) Regexp() *regexp.Regexp {
	return t.compiled
}

// Default returns the built-in autógrafo header template.
func Default() *HeaderTemplate {
	t := &HeaderTemplate{
		Name:        "autografo",
		Description: "Recurring \"Autógrafo de Lei nº N\" page header",
		Pattern:     segment.DefaultHeaderTemplate,
	}
	// The default pattern is a compile-time constant; it cannot fail.
	if err := t.Compile(); err != nil {
		panic(err)
	}
	return t
}
