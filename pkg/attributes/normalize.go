package attributes

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/defaults"
	"github.com/stackconf/stackconf/pkg/descriptor"
)

// Normalize merges an application descriptor with the host's overrides for
// that application and fills every unset field with its default. It never
// fails: unknown keys are ignored and values that cannot be coerced fall back
// to the default.
func Normalize(app *descriptor.Application, overrides descriptor.Tree, cfg *config.Config) *Attributes {
	global := overrides.Sub(descriptor.SectionGlobal)
	db := overrides.Sub(descriptor.SectionDatabase)
	as := overrides.Sub(descriptor.SectionAppServer)
	ws := overrides.Sub(descriptor.SectionWebServer)
	ssl := overrides.Sub(descriptor.SectionSSL)

	n := &normalizer{app: app.Shortname}

	attrs := &Attributes{
		Shortname:    app.Shortname,
		Name:         firstNonEmpty(app.Name, app.Shortname),
		Domains:      domains(app),
		DeployRoot:   n.absPath(global, "deploy_to", filepath.Join(cfg.DeployBase(), app.Shortname)),
		Environment:  firstNonEmpty(n.str(global, "environment", ""), app.Attributes.RailsEnv, defaults.RailsEnv),
		DocumentRoot: firstNonEmpty(n.str(global, "document_root", ""), app.Attributes.DocumentRoot, "public"),
		EnvVars:      n.envVars(app.Environment, overrides.Sub(descriptor.SectionEnvironment)),
		EnableSSL:    app.EnableSSL,
		DHParams:     firstNonEmpty(n.str(ssl, "dhparams", ""), n.str(ws, "dhparams", "")),
		Database: Database{
			Adapter:  strings.ToLower(n.str(db, "adapter", "")),
			Settings: db,
		},
		AppServer: AppServer{
			Name:       strings.ToLower(n.str(as, "adapter", defaults.AppServerName)),
			Workers:    n.positiveInt(as, "worker_processes", cfg.Concurrency()),
			Timeout:    n.positiveInt(as, "timeout", defaults.AppServerTimeout),
			Backlog:    n.positiveInt(as, "backlog", defaults.UnicornBacklog),
			Delay:      n.float(as, "delay", defaults.UnicornDelay),
			Tries:      n.positiveInt(as, "tries", defaults.UnicornTries),
			PreloadApp: n.boolean(as, "preload_app", defaults.UnicornPreloadApp),
			TCPNoDelay: n.boolean(as, "tcp_nodelay", defaults.UnicornTCPNoDelay),
			ThreadsMin: n.nonNegativeInt(as, "thread_min", defaults.PumaThreadsMin),
			ThreadsMax: n.positiveInt(as, "thread_max", defaults.PumaThreadsMax),
		},
		WebServer: WebServer{
			Name:                 strings.ToLower(n.str(ws, "adapter", defaults.WebServerName)),
			ClientMaxBodySize:    n.str(ws, "client_max_body_size", defaults.ClientMaxBodySize),
			KeepaliveTimeout:     n.positiveInt(ws, "keepalive_timeout", defaults.KeepaliveTimeout),
			ProxyReadTimeout:     n.positiveInt(ws, "proxy_read_timeout", defaults.ProxyReadTimeout),
			ProxySendTimeout:     n.positiveInt(ws, "proxy_send_timeout", defaults.ProxySendTimeout),
			SSLForLegacyBrowsers: n.boolean(ws, "ssl_for_legacy_browsers", defaults.SSLLegacyBrowsers),
			SessionTickets:       n.optionalBool(ws, "ssl_session_tickets"),
		},
	}

	if attrs.AppServer.ThreadsMin > attrs.AppServer.ThreadsMax {
		attrs.AppServer.ThreadsMin = attrs.AppServer.ThreadsMax
	}

	return attrs
}

// normalizer coerces override values and logs the ones it has to discard.
type normalizer struct {
	app string
}

func (n *normalizer) discard(key string, value any, err error) {
	slog.Debug("ignoring override value",
		"app", n.app,
		"key", key,
		"value", value,
		"error", err,
	)
}

func (n *normalizer) str(t descriptor.Tree, key, def string) string {
	v, ok := t.Lookup(key)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		n.discard(key, v, err)
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func (n *normalizer) absPath(t descriptor.Tree, key, def string) string {
	p := n.str(t, key, def)
	if !filepath.IsAbs(p) {
		n.discard(key, p, nil)
		return def
	}
	return filepath.Clean(p)
}

func (n *normalizer) integer(t descriptor.Tree, key string) (int, bool) {
	v, ok := t.Lookup(key)
	if !ok {
		return 0, false
	}
	if s, isStr := v.(string); isStr {
		v = strings.TrimSpace(s)
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		n.discard(key, v, err)
		return 0, false
	}
	return i, true
}

func (n *normalizer) positiveInt(t descriptor.Tree, key string, def int) int {
	i, ok := n.integer(t, key)
	if !ok || i < 1 {
		return def
	}
	return i
}

func (n *normalizer) nonNegativeInt(t descriptor.Tree, key string, def int) int {
	i, ok := n.integer(t, key)
	if !ok || i < 0 {
		return def
	}
	return i
}

func (n *normalizer) float(t descriptor.Tree, key string, def float64) float64 {
	v, ok := t.Lookup(key)
	if !ok {
		return def
	}
	if s, isStr := v.(string); isStr {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || f < 0 {
		n.discard(key, v, err)
		return def
	}
	return f
}

func (n *normalizer) boolean(t descriptor.Tree, key string, def bool) bool {
	if b := n.optionalBool(t, key); b != nil {
		return *b
	}
	return def
}

func (n *normalizer) optionalBool(t descriptor.Tree, key string) *bool {
	v, ok := t.Lookup(key)
	if !ok {
		return nil
	}
	if s, isStr := v.(string); isStr {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "yes":
			v = true
		case "off", "no":
			v = false
		default:
			v = strings.ToLower(strings.TrimSpace(s))
		}
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		n.discard(key, v, err)
		return nil
	}
	return &b
}

func domains(app *descriptor.Application) []string {
	out := make([]string, 0, len(app.Domains))
	seen := make(map[string]bool, len(app.Domains))
	for _, d := range app.Domains {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		out = append(out, app.Shortname)
	}
	return out
}

// envKeyPattern matches names that are safe to export from a shell script.
var envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// envVars merges the application's variables with the override section,
// overrides winning, sorted by key so rendering is deterministic. Names that
// are not valid shell identifiers are dropped.
func (n *normalizer) envVars(base map[string]string, overrides descriptor.Tree) []EnvVar {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for _, k := range overrides.Keys() {
		s, err := cast.ToStringE(overrides[k])
		if err != nil {
			n.discard(k, overrides[k], err)
			continue
		}
		merged[k] = s
	}

	keys := make([]string, 0, len(merged))
	for k, v := range merged {
		if !envKeyPattern.MatchString(k) {
			n.discard(k, v, nil)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]EnvVar, 0, len(keys))
	for _, k := range keys {
		out = append(out, EnvVar{Key: k, Value: merged[k]})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
