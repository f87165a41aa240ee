package tmpl

import "strings"

// Vars holds the values available to output name templates.
type Vars struct {
	Name  string
	Label string
}

// Expand replaces template placeholders in s with icon values.
// {name} → icon name, {label} → lower-cased label, {LABEL} → label as-is.
func Expand(s string, v Vars) string {
	s = strings.ReplaceAll(s, "{name}", v.Name)
	s = strings.ReplaceAll(s, "{LABEL}", v.Label)
	s = strings.ReplaceAll(s, "{label}", strings.ToLower(v.Label))
	return s
}
