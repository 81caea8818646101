// Package webserver implements the nginx virtual host driver.
package webserver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/defaults"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/mapping"
)

// Virtual host mapping keys.
const (
	KeyAppName               = "app_name"
	KeyServerName            = "server_name"
	KeyDomains               = "domains"
	KeyDeployRoot            = "deploy_root"
	KeyDocumentRoot          = "document_root"
	KeyUpstream              = "upstream"
	KeyUpstreamSocket        = "upstream_socket"
	KeyClientMaxBodySize     = "client_max_body_size"
	KeyKeepaliveTimeout      = "keepalive_timeout"
	KeyProxyReadTimeout      = "proxy_read_timeout"
	KeyProxySendTimeout      = "proxy_send_timeout"
	KeyAccessLog             = "access_log"
	KeyErrorLog              = "error_log"
	KeySSLEnabled            = "ssl_enabled"
	KeySSLCertificate        = "ssl_certificate"
	KeySSLCertificateKey     = "ssl_certificate_key"
	KeySSLTrustedCertificate = "ssl_trusted_certificate"
	KeySSLDHParam            = "ssl_dhparam"
	KeySSLCiphers            = "ssl_ciphers"
	KeySSLECDHCurve          = "ssl_ecdh_curve"
	KeySSLSessionTickets     = "ssl_session_tickets"
	KeySSLStapling           = "ssl_stapling"
	KeySSLProtocols          = "ssl_protocols"
	KeySiteAvailable         = "site_available"
	KeySiteEnabled           = "site_enabled"
)

// RequiredKeys lists the keys every virtual host mapping must contain.
var RequiredKeys = []string{
	KeyAppName, KeyServerName, KeyDeployRoot, KeyDocumentRoot, KeyUpstream, KeyUpstreamSocket,
	KeyClientMaxBodySize, KeyKeepaliveTimeout,
	KeySSLCertificate, KeySSLCertificateKey, KeySSLTrustedCertificate, KeySSLDHParam,
	KeySSLCiphers, KeySSLProtocols, KeySiteAvailable, KeySiteEnabled,
}

// CipherPolicy returns the cipher list and ECDH curve for the browser
// compatibility profile. The legacy profile leaves the curve empty so nginx
// negotiates one per client.
func CipherPolicy(legacy bool) (ciphers, curve string) {
	if legacy {
		return defaults.LegacyCiphers, ""
	}
	return defaults.ModernCiphers, defaults.ModernECDHCurve
}

// SiteAvailablePath returns <nginx>/sites-available/<shortname>.
func SiteAvailablePath(nginxDir, shortname string) string {
	return filepath.Join(nginxDir, "sites-available", shortname)
}

// SiteEnabledPath returns <nginx>/sites-enabled/<shortname>.
func SiteEnabledPath(nginxDir, shortname string) string {
	return filepath.Join(nginxDir, "sites-enabled", shortname)
}

type nginx struct{}

// NewNginx returns the nginx driver.
func NewNginx() driver.WebServerDriver {
	return &nginx{}
}

// Drivers returns every built-in web server driver.
func Drivers() []driver.Driver {
	return []driver.Driver{NewNginx()}
}

func (d *nginx) Name() string             { return "nginx" }
func (d *nginx) Concern() driver.Concern  { return driver.ConcernWebServer }
func (d *nginx) Discriminators() []string { return []string{"nginx"} }

// GetTemplate implements driver.TemplateProvider.
func (d *nginx) GetTemplate(name string) (string, bool) {
	return GetTemplate(name)
}

// Resolve builds the virtual host mapping. The upstream socket follows the
// application server named in attrs, so the two drivers agree on it without
// seeing each other's mappings.
func (d *nginx) Resolve(attrs *attributes.Attributes, tls driver.TLSPaths, cfg *config.Config) (*mapping.Mapping, error) {
	ws := attrs.WebServer
	ciphers, curve := CipherPolicy(ws.SSLForLegacyBrowsers)
	appServer := attrs.AppServer.Name

	b := mapping.NewBuilder().
		Set(KeyAppName, attrs.Shortname).
		Set(KeyServerName, strings.Join(attrs.Domains, " ")).
		Set(KeyDomains, attrs.Domains).
		Set(KeyDeployRoot, attrs.DeployRoot).
		Set(KeyDocumentRoot, filepath.Join(attrs.DeployRoot, "current", attrs.DocumentRoot)).
		Set(KeyUpstream, fmt.Sprintf("%s_%s", appServer, attrs.Shortname)).
		Set(KeyUpstreamSocket, "unix:"+filepath.Join(attrs.DeployRoot, "shared", "sockets", appServer+".sock")).
		Set(KeyClientMaxBodySize, ws.ClientMaxBodySize).
		Set(KeyKeepaliveTimeout, ws.KeepaliveTimeout).
		Set(KeyProxyReadTimeout, ws.ProxyReadTimeout).
		Set(KeyProxySendTimeout, ws.ProxySendTimeout).
		Set(KeyAccessLog, filepath.Join(defaults.NginxLogDir, attrs.Shortname+".access.log")).
		Set(KeyErrorLog, filepath.Join(defaults.NginxLogDir, attrs.Shortname+".error.log")).
		Set(KeySSLEnabled, attrs.EnableSSL).
		Set(KeySSLCertificate, tls.CertificatePath).
		Set(KeySSLCertificateKey, tls.KeyPath).
		Set(KeySSLTrustedCertificate, tls.ChainPath).
		Set(KeySSLDHParam, tls.DHParamsPath).
		Set(KeySSLCiphers, ciphers).
		SetIf(curve != "", KeySSLECDHCurve, curve).
		SetIf(ws.SessionTickets != nil, KeySSLSessionTickets, onOff(ws.SessionTickets)).
		Set(KeySSLStapling, "on").
		Set(KeySSLProtocols, defaults.SSLProtocols).
		Set(KeySiteAvailable, SiteAvailablePath(cfg.NginxDir(), attrs.Shortname)).
		Set(KeySiteEnabled, SiteEnabledPath(cfg.NginxDir(), attrs.Shortname))

	return b.Build(RequiredKeys...)
}

// Artifacts declares the site file and the link that enables it.
func (d *nginx) Artifacts(_ *attributes.Attributes, m *mapping.Mapping, _ *config.Config) []driver.Artifact {
	return []driver.Artifact{
		{
			Kind:     driver.ArtifactTemplate,
			Path:     m.String(KeySiteAvailable),
			Template: "nginx.conf",
			Mode:     0o644,
		},
		{
			Kind:   driver.ArtifactSymlink,
			Path:   m.String(KeySiteEnabled),
			Target: m.String(KeySiteAvailable),
		},
	}
}

func onOff(b *bool) string {
	if b != nil && *b {
		return "on"
	}
	return "off"
}
