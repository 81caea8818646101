package render

import (
	"strings"
	"text/template"
)

// FuncMap returns the functions available to every artifact template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"rubyString": RubyString,
		"shellQuote": ShellQuote,
		"join":       strings.Join,
	}
}

var rubyEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"#{", `\#{`,
	"#$", `\#$`,
	"#@", `\#@`,
)

// RubyString renders s as a double-quoted Ruby literal with interpolation
// disabled.
func RubyString(s string) string {
	return `"` + rubyEscaper.Replace(s) + `"`
}

// ShellQuote renders s as a single-quoted POSIX shell word.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
