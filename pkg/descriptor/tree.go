package descriptor

import (
	"sort"

	"github.com/spf13/cast"
)

// Override tree section names under deploy.<shortname>.
const (
	SectionDatabase    = "database"
	SectionWebServer   = "webserver"
	SectionAppServer   = "appserver"
	SectionGlobal      = "global"
	SectionEnvironment = "environment_variables"
	SectionSSL         = "ssl"
)

// Tree is a nested map of operator overrides. A nil Tree behaves as empty.
type Tree map[string]any

// Sub returns the nested tree at key. Missing keys and non-map values yield
// an empty, non-nil Tree so callers can index without guard checks.
func (t Tree) Sub(key string) Tree {
	v, ok := t[key]
	if !ok || v == nil {
		return Tree{}
	}
	if sub, ok := v.(Tree); ok {
		return sub
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return Tree{}
	}
	return Tree(m)
}

// Path walks keys with Sub.
func (t Tree) Path(keys ...string) Tree {
	cur := t
	for _, k := range keys {
		cur = cur.Sub(k)
	}
	return cur
}

// Lookup returns the raw value at key and whether it is present and non-nil.
func (t Tree) Lookup(key string) (any, bool) {
	v, ok := t[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Keys returns the tree's keys in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
