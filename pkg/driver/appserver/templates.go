package appserver

import (
	_ "embed"
)

//go:embed templates/unicorn.conf.tmpl
var unicornConfigTemplate string

//go:embed templates/unicorn.service.tmpl
var unicornScriptTemplate string

//go:embed templates/puma.rb.tmpl
var pumaConfigTemplate string

//go:embed templates/puma.service.tmpl
var pumaScriptTemplate string

// GetTemplate returns the named template content.
func GetTemplate(name string) (string, bool) {
	templates := map[string]string{
		"unicorn.conf":    unicornConfigTemplate,
		"unicorn.service": unicornScriptTemplate,
		"puma.rb":         pumaConfigTemplate,
		"puma.service":    pumaScriptTemplate,
	}

	tmpl, ok := templates[name]
	return tmpl, ok
}
