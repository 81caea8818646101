package attributes

import "github.com/stackconf/stackconf/pkg/descriptor"

// Attributes is the normalized, fully-defaulted view of one application that
// every driver consumes. Normalize is its only constructor.
type Attributes struct {
	Shortname    string   `json:"shortname" yaml:"shortname"`
	Name         string   `json:"name" yaml:"name"`
	Domains      []string `json:"domains" yaml:"domains"`
	DeployRoot   string   `json:"deploy_root" yaml:"deploy_root"`
	Environment  string   `json:"environment" yaml:"environment"`
	DocumentRoot string   `json:"document_root" yaml:"document_root"`
	EnvVars      []EnvVar `json:"env_vars" yaml:"env_vars"`
	EnableSSL    bool     `json:"enable_ssl" yaml:"enable_ssl"`
	DHParams     string   `json:"-" yaml:"-"`

	Database  Database  `json:"database" yaml:"database"`
	AppServer AppServer `json:"appserver" yaml:"appserver"`
	WebServer WebServer `json:"webserver" yaml:"webserver"`
}

// EnvVar is one application environment variable.
type EnvVar struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Database holds database overrides. Adapter is empty when the operator did
// not pin a driver; Settings is never nil.
type Database struct {
	Adapter  string          `json:"adapter,omitempty" yaml:"adapter,omitempty"`
	Settings descriptor.Tree `json:"-" yaml:"-"`
}

// AppServer holds application server settings.
type AppServer struct {
	Name       string  `json:"name" yaml:"name"`
	Workers    int     `json:"workers" yaml:"workers"`
	Timeout    int     `json:"timeout" yaml:"timeout"`
	Backlog    int     `json:"backlog" yaml:"backlog"`
	Delay      float64 `json:"delay" yaml:"delay"`
	Tries      int     `json:"tries" yaml:"tries"`
	PreloadApp bool    `json:"preload_app" yaml:"preload_app"`
	TCPNoDelay bool    `json:"tcp_nodelay" yaml:"tcp_nodelay"`
	ThreadsMin int     `json:"threads_min" yaml:"threads_min"`
	ThreadsMax int     `json:"threads_max" yaml:"threads_max"`
}

// WebServer holds web server settings.
type WebServer struct {
	Name                 string `json:"name" yaml:"name"`
	ClientMaxBodySize    string `json:"client_max_body_size" yaml:"client_max_body_size"`
	KeepaliveTimeout     int    `json:"keepalive_timeout" yaml:"keepalive_timeout"`
	ProxyReadTimeout     int    `json:"proxy_read_timeout" yaml:"proxy_read_timeout"`
	ProxySendTimeout     int    `json:"proxy_send_timeout" yaml:"proxy_send_timeout"`
	SSLForLegacyBrowsers bool   `json:"ssl_for_legacy_browsers" yaml:"ssl_for_legacy_browsers"`
	// SessionTickets is nil unless the operator set ssl_session_tickets.
	SessionTickets *bool `json:"ssl_session_tickets,omitempty" yaml:"ssl_session_tickets,omitempty"`
}

// FirstDomain returns the first domain, which names the TLS material files.
func (a *Attributes) FirstDomain() string {
	if len(a.Domains) > 0 {
		return a.Domains[0]
	}
	return a.Shortname
}
