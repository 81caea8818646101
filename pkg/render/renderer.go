package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/stackconf/stackconf/pkg/errors"
)

// TemplateRenderer renders named templates from a driver's template set.
type TemplateRenderer struct {
	// templateGetter retrieves template content by name.
	templateGetter func(name string) (string, bool)
}

// NewTemplateRenderer creates a renderer over getter.
func NewTemplateRenderer(getter func(name string) (string, bool)) *TemplateRenderer {
	return &TemplateRenderer{
		templateGetter: getter,
	}
}

// Render renders a template with the given data. Optional keys may be
// tested with "if"; printing a key the mapping lacks is a contract violation
// reported as MISSING_REQUIRED_KEY before anything is executed.
func (r *TemplateRenderer) Render(name string, data map[string]any) (string, error) {
	tmplContent, ok := r.templateGetter(name)
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	tmpl, err := template.New(name).Funcs(FuncMap()).Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	if missing := missingKeys(tmpl.Tree.Root, data); len(missing) > 0 {
		return "", errors.New(errors.ErrCodeMissingRequiredKey,
			"template uses keys missing from its mapping").
			WithContext("template", name).
			WithContext("keys", strings.Join(missing, ","))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// missingKeys lists the top-level keys a template prints or passes to a
// function that data does not hold. Conditions are not checked, and keys an
// "if" tests are optional inside its body. Inside range and with bodies dot
// is rebound, so only $-rooted fields are checked there.
func missingKeys(root *parse.ListNode, data map[string]any) []string {
	missing := map[string]bool{}
	w := keyWalker{data: data, missing: missing}
	w.walk(root, true, nil)

	out := make([]string, 0, len(missing))
	for k := range missing {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type keyWalker struct {
	data    map[string]any
	missing map[string]bool
}

func (w keyWalker) walk(n parse.Node, dotIsRoot bool, guarded map[string]bool) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			w.walk(c, dotIsRoot, guarded)
		}
	case *parse.ActionNode:
		if len(n.Pipe.Decl) == 0 {
			w.checkPipe(n.Pipe, dotIsRoot, guarded)
		}
	case *parse.IfNode:
		inner := make(map[string]bool, len(guarded)+1)
		for k := range guarded {
			inner[k] = true
		}
		for _, k := range pipeKeys(n.Pipe, dotIsRoot) {
			inner[k] = true
		}
		w.walk(n.List, dotIsRoot, inner)
		w.walk(n.ElseList, dotIsRoot, guarded)
	case *parse.RangeNode:
		w.walk(n.List, false, guarded)
		w.walk(n.ElseList, dotIsRoot, guarded)
	case *parse.WithNode:
		w.walk(n.List, false, guarded)
		w.walk(n.ElseList, dotIsRoot, guarded)
	}
}

func (w keyWalker) checkPipe(p *parse.PipeNode, dotIsRoot bool, guarded map[string]bool) {
	for _, k := range pipeKeys(p, dotIsRoot) {
		if guarded[k] {
			continue
		}
		if _, ok := w.data[k]; !ok {
			w.missing[k] = true
		}
	}
}

// pipeKeys returns the top-level keys referenced by a pipeline.
func pipeKeys(p *parse.PipeNode, dotIsRoot bool) []string {
	if p == nil {
		return nil
	}
	var keys []string
	for _, cmd := range p.Cmds {
		for _, arg := range cmd.Args {
			switch a := arg.(type) {
			case *parse.FieldNode:
				if dotIsRoot {
					keys = append(keys, a.Ident[0])
				}
			case *parse.VariableNode:
				if a.Ident[0] == "$" && len(a.Ident) > 1 {
					keys = append(keys, a.Ident[1])
				}
			case *parse.PipeNode:
				keys = append(keys, pipeKeys(a, dotIsRoot)...)
			}
		}
	}
	return keys
}
