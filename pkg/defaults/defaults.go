package defaults

import "time"

// Layout roots.
const (
	DeployBase  = "/srv/www"
	NginxDir    = "/etc/nginx"
	NginxLogDir = "/var/log/nginx"
	RootPrefix  = "/"

	// TLSSubdir is joined to NginxDir unless a TLS dir is configured.
	TLSSubdir = "ssl"
)

// Environments every connection file is fanned out to, in output order.
var Environments = []string{"development", "production"}

// Attribute defaults.
const (
	RailsEnv = "production"

	AppServerName = "unicorn"
	WebServerName = "nginx"

	AppServerTimeout     = 50
	UnicornBacklog       = 1024
	UnicornDelay         = 0.5
	UnicornTries         = 5
	UnicornPreloadApp    = true
	UnicornTCPNoDelay    = true
	PumaThreadsMin       = 0
	PumaThreadsMax       = 16
	ClientMaxBodySize    = "125m"
	KeepaliveTimeout     = 15
	ProxyReadTimeout     = 60
	ProxySendTimeout     = 60
	SSLLegacyBrowsers    = false
	DatabasePoolHeadroom = 2
	DatabaseTimeoutMS    = 5000
	MongoPoolPerWorker   = 5
	MongoConnectTimeout  = 5
)

// TLS cipher policies for the web server.
const (
	ModernCiphers = "EECDH+AESGCM:EDH+AESGCM:AES256+EECDH:AES256+EDH"
	LegacyCiphers = "EECDH+AESGCM:EDH+AESGCM:AES256+EECDH:AES256+EDH:ECDHE-RSA-AES128-GCM-SHA384:" +
		"ECDHE-RSA-AES128-GCM-SHA256:ECDHE-RSA-AES128-GCM-SHA128:DHE-RSA-AES128-GCM-SHA384:DHE-RSA-AES128-GCM-SHA256:" +
		"DHE-RSA-AES128-GCM-SHA128:ECDHE-RSA-AES128-SHA384:ECDHE-RSA-AES128-SHA128:ECDHE-RSA-AES128-SHA:" +
		"ECDHE-RSA-AES128-SHA:DHE-RSA-AES128-SHA128:DHE-RSA-AES128-SHA128:DHE-RSA-AES128-SHA:DHE-RSA-AES128-SHA:" +
		"ECDHE-RSA-DES-CBC3-SHA:EDH-RSA-DES-CBC3-SHA:AES128-GCM-SHA384:AES128-GCM-SHA128:AES128-SHA128:AES128-SHA128:" +
		"AES128-SHA:AES128-SHA:DES-CBC3-SHA:HIGH:!aNULL:!eNULL:!EXPORT:!DES:!MD5:!PSK:!RC4"
	ModernECDHCurve = "secp384r1"
	SSLProtocols    = "TLSv1 TLSv1.1 TLSv1.2"
)

// Timeouts.
const (
	ResolveHandlerTimeout = 30 * time.Second
	ServerShutdownTimeout = 30 * time.Second
	KubernetesAPITimeout  = 30 * time.Second
)
