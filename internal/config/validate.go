package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structure of f: required fields, unique injector names,
// and keys that are declared twice in one injector. Conflicts between
// injectors are found by Build.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(diagnostic.CodeConfig, "config file is nil", "", "", "")
		return res
	}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			res.AddError(diagnostic.CodeConfig, err.Error(), "", "", "")
			return res
		}

		for _, e := range verrs {
			res.AddError(diagnostic.CodeConfig, formatFieldError(e), "", "", e.Namespace())
		}

		return res
	}

	names := make(map[string]bool)

	f.Injector.Walk(func(parent, in *Injector) {
		if names[in.Name] {
			res.AddError(diagnostic.CodeConfig, fmt.Sprintf("duplicate injector name %q", in.Name), in.Name, "", "")
		}

		names[in.Name] = true

		bound := make(map[inject.Key]bool)
		for _, b := range in.Bindings {
			key := b.InjectKey()
			if bound[key] {
				res.AddError(diagnostic.CodeDoubleBinding, "key is bound twice", in.Name, key.String(), b.Source)
			}

			bound[key] = true
		}

		for _, r := range in.Pinned {
			if bound[r.InjectKey()] {
				res.AddWarning(diagnostic.CodeConfig, "pinned key is already bound here", in.Name, r.InjectKey().String())
			}
		}

		if parent == nil && len(in.Expose) > 0 {
			res.AddError(diagnostic.CodeConfig, "the root injector has no parent to expose keys to", in.Name, "", "")
		}
	})

	return res
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "eq":
		return fmt.Sprintf("%s must be %s", field, e.Param())
	case "excludesrune":
		return fmt.Sprintf("%s must not contain %q", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
