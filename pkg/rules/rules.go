// Package rules loads declarative extraction rules from YAML or JSON files
// and compiles them into list elements producing generic records. A rules
// file names the item selector and, per output field, a take selector plus
// a filter pipeline; everything is validated at load so a stale or
// misspelled rules file fails before any page is fetched.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pageforge/pageforge/pkg/elements"
)

// Record is the untyped output of a compiled ruleset, one map per item.
type Record = map[string]any

// Ruleset is one parsed and compiled rules file.
type Ruleset struct {
	Name        string      `json:"name" yaml:"name" validate:"required"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	List        ListSpec    `json:"list" yaml:"list" validate:"required"`
	Fields      []FieldSpec `json:"fields" yaml:"fields" validate:"required,min=1,dive"`

	element *elements.List[Record]
}

// ListSpec locates the item nodes.
type ListSpec struct {
	// Root selects the item nodes, one record each.
	Root string `json:"root" yaml:"root" validate:"required"`
	// Selector names the expression language: xpath (default), css or
	// path for JSON documents.
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty" validate:"omitempty,oneof=xpath css path"`
	// Empty optionally matches the site's own "no results" marker, so an
	// empty listing is not mistaken for a stale Root selector.
	Empty string `json:"empty,omitempty" yaml:"empty,omitempty"`
	// IgnoreDuplicates drops repeated records instead of failing.
	IgnoreDuplicates bool `json:"ignore_duplicates,omitempty" yaml:"ignore_duplicates,omitempty"`
}

// FieldSpec declares one output field of each record.
type FieldSpec struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	// Take selects the field's source node, relative to the item node.
	Take     string `json:"take" yaml:"take" validate:"required"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty" validate:"omitempty,oneof=xpath css path"`
	// First takes the first of several matches instead of requiring
	// exactly one.
	First bool `json:"first,omitempty" yaml:"first,omitempty"`
	// Link resolves the selected element's href or src against the page
	// URL instead of taking its text.
	Link bool `json:"link,omitempty" yaml:"link,omitempty"`
	// Attr reads an attribute of the selected element instead of its
	// text.
	Attr string `json:"attr,omitempty" yaml:"attr,omitempty"`
	// Optional leaves the field absent on failure instead of dropping
	// the record with an error.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
	// Filters is the pipeline applied to the selected value, in order.
	Filters []FilterSpec `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// FilterSpec is one pipeline stage: a bare name ("clean_text") or a
// one-key mapping with arguments ({regexp: {pattern: ..., template: ...}}).
type FilterSpec struct {
	Name string
	args *yaml.Node
}

func (f *FilterSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&f.Name)
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("filter mapping must have exactly one key")
		}
		if err := node.Content[0].Decode(&f.Name); err != nil {
			return err
		}
		f.args = node.Content[1]
		return nil
	default:
		return fmt.Errorf("filter must be a name or a one-key mapping")
	}
}

func (f *FilterSpec) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &f.Name); err == nil {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("filter must be a name or a one-key object")
	}
	if len(m) != 1 {
		return fmt.Errorf("filter object must have exactly one key")
	}
	for name, raw := range m {
		f.Name = name
		// Route the arguments through YAML, which decodes JSON too.
		var n yaml.Node
		if err := yaml.Unmarshal(raw, &n); err != nil {
			return err
		}
		if len(n.Content) > 0 {
			f.args = n.Content[0]
		}
	}
	return nil
}

var validate = validator.New()

// FromFile loads and compiles a rules file, dispatching on its extension.
func FromFile(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported rules file format: %s", filepath.Ext(path))
	}
}

// FromYAML parses and compiles YAML rules.
func FromYAML(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing YAML rules: %w", err)
	}
	return finish(&rs)
}

// FromJSON parses and compiles JSON rules.
func FromJSON(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing JSON rules: %w", err)
	}
	return finish(&rs)
}

func finish(rs *Ruleset) (*Ruleset, error) {
	if err := validate.Struct(rs); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	el, err := rs.compile()
	if err != nil {
		return nil, err
	}
	rs.element = el
	return rs, nil
}

// Element returns the compiled list element.
func (rs *Ruleset) Element() *elements.List[Record] { return rs.element }
