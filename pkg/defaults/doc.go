// Package defaults provides centralized configuration constants for stackconf.
//
// This package defines the filesystem layout roots, the attribute defaults the
// normalizer falls back to, the TLS cipher policies and the timeouts used by
// the server and the Kubernetes inventory reader. Centralizing these values
// keeps drivers, the normalizer and the renderer in agreement.
//
// # Categories
//
//   - Layout: deploy base, nginx and TLS directories
//   - Attributes: worker, timeout, body size and keep-alive defaults
//   - TLS: the modern and legacy cipher lists
//   - Timeouts: HTTP handler, server shutdown and Kubernetes API calls
//
// # Usage
//
//	import "github.com/stackconf/stackconf/pkg/defaults"
//
//	root := filepath.Join(defaults.DeployBase, shortname)
//	ctx, cancel := context.WithTimeout(ctx, defaults.ResolveHandlerTimeout)
//	defer cancel()
package defaults
