// Package tmpl renders the small Go templates used in configured commands.
package tmpl

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"
)

// shellQuote returns a shell-safe quoted string. It wraps the string in single
// quotes and escapes any existing single quotes using the '\" technique.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

// urlEncode percent-encodes s with spaces as %20.
func urlEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var funcs = template.FuncMap{
	"shq":       shellQuote,
	"join":      strings.Join,
	"urlencode": urlEncode,
}

// IsTemplate reports whether s contains template actions.
func IsTemplate(s string) bool {
	return strings.Contains(s, "{{")
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - shq: Shell-quote a string for safe use in shell commands
//   - join: Join string slice with separator (e.g., join .Recipients ",")
//   - urlencode: Percent-encode a string for use in a URL
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// RenderAll renders each element of args with the same data.
func RenderAll(args []string, data any) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		s, err := Render(arg, data)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
