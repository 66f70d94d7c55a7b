package module

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OptionKind tells frontends how to prompt for a configuration value.
type OptionKind string

const (
	KindString   OptionKind = "string"
	KindPassword OptionKind = "password"
	KindBool     OptionKind = "bool"
	KindChoice   OptionKind = "choice"
)

// Option describes one configuration entry of a module: its kind, whether
// the user must provide it, and how to validate what they type.
type Option struct {
	Name     string     `json:"name" yaml:"name"`
	Label    string     `json:"label" yaml:"label"`
	Kind     OptionKind `json:"kind" yaml:"kind"`
	Required bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Default  string     `json:"default,omitempty" yaml:"default,omitempty"`
	// Choices maps stored value to display label for KindChoice.
	Choices map[string]string `json:"choices,omitempty" yaml:"choices,omitempty"`
	// Validate is a validator tag applied to the value, like "numeric"
	// or "len=6".
	Validate string `json:"validate,omitempty" yaml:"validate,omitempty"`
}

// Masked reports whether the value must never be displayed or logged.
func (o Option) Masked() bool { return o.Kind == KindPassword }

// Display renders a stored value for user-facing output, hiding masked
// ones.
func (o Option) Display(value string) string {
	if o.Masked() && value != "" {
		return strings.Repeat("*", 8)
	}
	return value
}

// Options is the ordered configuration surface of a module.
type Options []Option

// Get finds an option by name.
func (os Options) Get(name string) (Option, bool) {
	for _, o := range os {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Values holds the user-supplied configuration, keyed by option name.
type Values map[string]string

// GetBool interprets a stored value as a boolean.
func (v Values) GetBool(name string) bool {
	b, err := strconv.ParseBool(v[name])
	return err == nil && b
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("option %q: %s", e.Option, e.Reason)
}

var validate = validator.New()

// Resolve checks vals against the options and returns a complete set:
// defaults filled in, required presence enforced, choices and validator
// tags checked, unknown keys rejected.
func (os Options) Resolve(vals Values) (Values, error) {
	for name := range vals {
		if _, ok := os.Get(name); !ok {
			return nil, &ConfigError{Option: name, Reason: "unknown option"}
		}
	}

	out := Values{}
	for _, o := range os {
		v, ok := vals[o.Name]
		if !ok || v == "" {
			if o.Default != "" {
				out[o.Name] = o.Default
				continue
			}
			if o.Required {
				return nil, &ConfigError{Option: o.Name, Reason: "required"}
			}
			out[o.Name] = ""
			continue
		}

		switch o.Kind {
		case KindBool:
			if _, err := strconv.ParseBool(v); err != nil {
				return nil, &ConfigError{Option: o.Name, Reason: fmt.Sprintf("not a boolean: %q", v)}
			}
		case KindChoice:
			if _, ok := o.Choices[v]; !ok {
				return nil, &ConfigError{Option: o.Name, Reason: fmt.Sprintf("not one of %s", strings.Join(choiceKeys(o.Choices), ", "))}
			}
		}

		if o.Validate != "" {
			if err := validate.Var(v, o.Validate); err != nil {
				return nil, &ConfigError{Option: o.Name, Reason: "does not satisfy " + o.Validate}
			}
		}
		out[o.Name] = v
	}
	return out, nil
}

func choiceKeys(choices map[string]string) []string {
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
