package analyze

import (
	"fmt"
	"go/ast"
	"slices"
	"strings"
)

const directivePrefix = "//inject:"

// directives are the //inject: comments attached to a function.
type directives struct {
	ignore    bool
	qualifier string
	named     map[string]string
	optional  map[string]bool
}

func parseDirectives(doc *ast.CommentGroup) (directives, error) {
	d := directives{
		named:    make(map[string]string),
		optional: make(map[string]bool),
	}

	if doc == nil {
		return d, nil
	}

	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(c.Text, directivePrefix))
		if len(fields) == 0 {
			return d, fmt.Errorf("empty directive %q", c.Text)
		}

		switch verb, args := fields[0], fields[1:]; verb {
		case "ignore":
			d.ignore = true
		case "qualifier":
			if len(args) != 1 {
				return d, fmt.Errorf("%q: want //inject:qualifier <name>", c.Text)
			}

			d.qualifier = args[0]
		case "named":
			if len(args) != 2 {
				return d, fmt.Errorf("%q: want //inject:named <param> <name>", c.Text)
			}

			d.named[args[0]] = args[1]
		case "optional":
			if len(args) == 0 {
				return d, fmt.Errorf("%q: want //inject:optional <param>...", c.Text)
			}

			for _, p := range args {
				d.optional[p] = true
			}
		default:
			return d, fmt.Errorf("unknown directive %q", c.Text)
		}
	}

	return d, nil
}

// unused returns directive parameter names that match no parameter.
func (d directives) unused(params map[string]bool) []string {
	var out []string

	for name := range d.named {
		if !params[name] {
			out = append(out, name)
		}
	}

	for name := range d.optional {
		if !params[name] {
			out = append(out, name)
		}
	}

	slices.Sort(out)

	return out
}
