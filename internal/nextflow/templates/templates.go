// Package templates holds the embedded Nextflow code templates, one per
// process type, plus the pipeline header and compiler blocks.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed *.nf.tmpl
var files embed.FS

var templates = template.Must(template.ParseFS(files, "*.nf.tmpl"))

// Exists reports whether a template with the given name is embedded.
func Exists(name string) bool {
	return templates.Lookup(name+".nf.tmpl") != nil
}

// Render populates the named template with the given context.
func Render(name string, context any) (string, error) {
	tmpl := templates.Lookup(name + ".nf.tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("template %q does not exist", name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, context); err != nil {
		return "", fmt.Errorf("rendering template %q: %w", name, err)
	}
	return sb.String(), nil
}
