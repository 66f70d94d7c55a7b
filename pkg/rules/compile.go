package rules

import (
	"fmt"
	"regexp"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"
	"gopkg.in/yaml.v3"

	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/elements"
	"github.com/pageforge/pageforge/pkg/filters"
)

// compile turns the parsed ruleset into a list element. Every selector and
// filter argument is checked here so nothing panics or misbehaves later at
// extraction time.
func (rs *Ruleset) compile() (*elements.List[Record], error) {
	root, err := buildSelector(rs.List.Root, rs.List.Selector)
	if err != nil {
		return nil, fmt.Errorf("list root: %w", err)
	}

	var empty document.Selector
	if rs.List.Empty != "" {
		empty, err = buildSelector(rs.List.Empty, rs.List.Selector)
		if err != nil {
			return nil, fmt.Errorf("list empty marker: %w", err)
		}
	}

	item := elements.Item[Record]{}
	seen := map[string]bool{}
	for _, fs := range rs.Fields {
		if seen[fs.Name] {
			return nil, fmt.Errorf("field %q: declared twice", fs.Name)
		}
		seen[fs.Name] = true

		attr, err := compileField(fs, rs.List.Selector)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fs.Name, err)
		}
		item.Attrs = append(item.Attrs, attr)
	}

	return &elements.List[Record]{
		Items:            root,
		Empty:            empty,
		Item:             item,
		IgnoreDuplicates: rs.List.IgnoreDuplicates,
	}, nil
}

func compileField(fs FieldSpec, defaultLang string) (elements.Attr[Record], error) {
	lang := fs.Selector
	if lang == "" {
		lang = defaultLang
	}
	sel, err := buildSelector(fs.Take, lang)
	if err != nil {
		return elements.Attr[Record]{}, err
	}

	var stages []filters.Filter
	if fs.Attr != "" {
		stages = append(stages, filters.Attr(fs.Attr))
	}
	for _, spec := range fs.Filters {
		f, err := buildFilter(spec)
		if err != nil {
			return elements.Attr[Record]{}, err
		}
		stages = append(stages, f)
	}

	var rule filters.Rule
	switch {
	case fs.Link:
		rule = filters.Link(sel, stages...)
	case fs.First:
		rule = filters.TakeFirst(sel, stages...)
	default:
		rule = filters.Take(sel, stages...)
	}

	name := fs.Name
	return elements.Attr[Record]{
		Name: name,
		Rule: rule,
		Assign: func(r *Record, v any) error {
			if *r == nil {
				*r = Record{}
			}
			(*r)[name] = v
			return nil
		},
		Optional: fs.Optional,
	}, nil
}

// buildSelector validates the expression in its language before handing it
// to the document package, whose XPath constructor treats invalid
// expressions as programmer error.
func buildSelector(expr, lang string) (document.Selector, error) {
	switch lang {
	case "", "xpath":
		if _, err := xpath.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid XPath %q: %w", expr, err)
		}
		return document.XPath(expr), nil
	case "css":
		if _, err := cascadia.Parse(expr); err != nil {
			return nil, fmt.Errorf("invalid CSS selector %q: %w", expr, err)
		}
		return document.CSS(expr), nil
	case "path":
		return document.Path(expr), nil
	default:
		return nil, fmt.Errorf("unknown selector language %q", lang)
	}
}

func buildFilter(spec FilterSpec) (filters.Filter, error) {
	build, ok := filterTable[spec.Name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q", spec.Name)
	}
	f, err := build(spec.args)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", spec.Name, err)
	}
	return f, nil
}

// filterTable maps rules-file filter names to constructors. Argument
// decoding fails loudly on wrong shapes.
var filterTable = map[string]func(*yaml.Node) (filters.Filter, error){
	"clean_text": func(args *yaml.Node) (filters.Filter, error) {
		var symbols []string
		if args != nil {
			if err := args.Decode(&symbols); err != nil {
				return nil, fmt.Errorf("wants a list of symbols to strip")
			}
		}
		return filters.CleanText(symbols...), nil
	},
	"lower":      noArgs(filters.Lower),
	"upper":      noArgs(filters.Upper),
	"capitalize": noArgs(filters.Capitalize),
	"replace": func(args *yaml.Node) (filters.Filter, error) {
		var a struct {
			Old string `yaml:"old"`
			New string `yaml:"new"`
		}
		if args == nil || args.Decode(&a) != nil || a.Old == "" {
			return nil, fmt.Errorf("wants {old, new}")
		}
		return filters.Replace(a.Old, a.New), nil
	},
	"regexp": func(args *yaml.Node) (filters.Filter, error) {
		var a struct {
			Pattern  string `yaml:"pattern"`
			Template string `yaml:"template"`
		}
		if args == nil || args.Decode(&a) != nil || a.Pattern == "" {
			return nil, fmt.Errorf("wants {pattern, template}")
		}
		if _, err := regexp.Compile(a.Pattern); err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		if a.Template == "" {
			a.Template = "$1"
		}
		return filters.Regexp(a.Pattern, a.Template), nil
	},
	"join": func(args *yaml.Node) (filters.Filter, error) {
		sep := " "
		if args != nil {
			if err := args.Decode(&sep); err != nil {
				return nil, fmt.Errorf("wants a separator string")
			}
		}
		return filters.Join(sep), nil
	},
	"decimal": func(args *yaml.Node) (filters.Filter, error) {
		name := "us"
		if args != nil {
			if err := args.Decode(&name); err != nil {
				return nil, fmt.Errorf("wants a number format name")
			}
		}
		format, err := numberFormat(name)
		if err != nil {
			return nil, err
		}
		return filters.Decimal(format), nil
	},
	"int": noArgs(filters.Int),
	"date": func(args *yaml.Node) (filters.Filter, error) {
		var layouts []string
		if args != nil {
			if err := args.Decode(&layouts); err != nil {
				return nil, fmt.Errorf("wants a list of layouts")
			}
		}
		if len(layouts) == 0 {
			return nil, fmt.Errorf("wants at least one layout")
		}
		return filters.Date(layouts...), nil
	},
	"fuzzy_date": func(args *yaml.Node) (filters.Filter, error) {
		dayFirst := false
		if args != nil {
			if err := args.Decode(&dayFirst); err != nil {
				return nil, fmt.Errorf("wants a day_first boolean")
			}
		}
		return filters.FuzzyDate(dayFirst), nil
	},
	"unix_date": noArgs(filters.UnixDate),
	"duration":  noArgs(filters.Duration),
}

func noArgs(ctor func() filters.Filter) func(*yaml.Node) (filters.Filter, error) {
	return func(args *yaml.Node) (filters.Filter, error) {
		if args != nil {
			return nil, fmt.Errorf("takes no arguments")
		}
		return ctor(), nil
	}
}

func numberFormat(name string) (filters.NumberFormat, error) {
	switch name {
	case "us", "en":
		return filters.USNumber, nil
	case "fr":
		return filters.FrenchNumber, nil
	default:
		return filters.NumberFormat{}, fmt.Errorf("unknown number format %q", name)
	}
}
