package webserver

import (
	_ "embed"
)

//go:embed templates/nginx.conf.tmpl
var nginxTemplate string

// GetTemplate returns the named template content.
func GetTemplate(name string) (string, bool) {
	if name == "nginx.conf" {
		return nginxTemplate, true
	}
	return "", false
}
