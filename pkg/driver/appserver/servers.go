package appserver

import (
	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/mapping"
)

// NewUnicorn returns the Unicorn driver.
func NewUnicorn() driver.AppServerDriver {
	return &base{
		name:           "unicorn",
		discriminators: []string{"unicorn"},
		configFile:     "unicorn.conf",
		extraKeys:      []string{"backlog", "delay", "preload_app", "tcp_nodelay", "tries"},
		extras: func(b *mapping.Builder, attrs *attributes.Attributes) {
			as := attrs.AppServer
			b.Set("backlog", as.Backlog).
				Set("delay", as.Delay).
				Set("preload_app", as.PreloadApp).
				Set("tcp_nodelay", as.TCPNoDelay).
				Set("tries", as.Tries)
		},
	}
}

// NewPuma returns the Puma driver.
func NewPuma() driver.AppServerDriver {
	return &base{
		name:           "puma",
		discriminators: []string{"puma"},
		configFile:     "puma.rb",
		extraKeys:      []string{"threads_min", "threads_max", "preload_app"},
		extras: func(b *mapping.Builder, attrs *attributes.Attributes) {
			as := attrs.AppServer
			b.Set("threads_min", as.ThreadsMin).
				Set("threads_max", as.ThreadsMax).
				Set("preload_app", as.PreloadApp)
		},
	}
}

// Drivers returns every built-in application server driver.
func Drivers() []driver.Driver {
	return []driver.Driver{
		NewUnicorn(),
		NewPuma(),
	}
}
