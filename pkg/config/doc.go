// Package config provides the engine configuration shared by the normalizer,
// the drivers, the TLS resolver and the renderer.
//
// Config is built with the functional options pattern and never changes after
// construction, so it is safe to share between goroutines resolving different
// applications in parallel.
//
// # Configuration Options
//
//   - DeployBase: directory application roots live under (default "/srv/www")
//   - NginxDir: nginx configuration directory (default "/etc/nginx")
//   - TLSDir: TLS material directory (default "<NginxDir>/ssl")
//   - RootPrefix: prefix joined to every rendered path (default "/")
//   - Concurrency: host concurrency hint, the default worker count
//   - Parallelism: number of applications resolved at once
//   - Environments: connection file fan-out (default development, production)
//   - SystemdUnitDir: where systemd wrapper units go; empty disables them
//   - DryRun: print diffs instead of writing
//
// # Usage
//
//	cfg := config.NewConfig(
//	    config.WithConcurrency(4),
//	    config.WithRootPrefix(stagingDir),
//	)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// Settings can also come from a file and STACKCONF_* environment variables:
//
//	opts, err := config.Load("/etc/stackconf/stackconf.yaml")
//	if err != nil {
//	    return err
//	}
//	cfg := config.NewConfig(opts...)
package config
