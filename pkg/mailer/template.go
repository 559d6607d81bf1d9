package mailer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderRegex matches {{name}} tokens. The name is any run of
// characters between the double braces, trimmed of surrounding whitespace.
var placeholderRegex = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// TemplateParams maps placeholder names (without delimiters) to their
// substitution values. Values are stringified at render time.
type TemplateParams map[string]any

// Placeholders returns the distinct placeholder names referenced by tpl,
// in first-occurrence order.
func Placeholders(tpl string) []string {
	matches := placeholderRegex.FindAllStringSubmatch(tpl, -1)
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// ValidateTemplateParams verifies that every placeholder referenced by tpl
// has a value in params. Validation is all-or-nothing: the returned error
// enumerates every missing name, sorted for stable output, and no
// substitution is attempted.
func ValidateTemplateParams(tpl string, params TemplateParams) error {
	var missing []string
	for _, name := range Placeholders(tpl) {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	err := NewDeliveryError(KindValidation, "MISSING_TEMPLATE_PARAMETERS",
		fmt.Sprintf("template is missing parameters: %s", strings.Join(missing, ", ")), nil)
	return err.WithContext("missing_parameters", missing)
}

// RenderTemplate fills every {{name}} token in tpl with the stringified
// value of params[name]. Substitution is literal string replacement: no
// escaping, no recursive expansion, no conditionals. Rendering fails only
// when a referenced placeholder is absent from params.
func RenderTemplate(tpl string, params TemplateParams) (string, error) {
	if err := ValidateTemplateParams(tpl, params); err != nil {
		return "", err
	}
	out := placeholderRegex.ReplaceAllStringFunc(tpl, func(token string) string {
		name := strings.TrimSpace(token[2 : len(token)-2])
		return stringify(params[name])
	})
	return out, nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
