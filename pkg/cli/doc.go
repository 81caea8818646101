// Package cli implements the stackconf command line.
//
// # Commands
//
//	stackconf resolve -i inventory.yaml [--app NAME]... [--format yaml|json|table] [--output PATH|cm://ns/name]
//	stackconf render  -i inventory.yaml [--app NAME]... [--root DIR] [--dry-run] [--systemd-unit-dir DIR]
//	stackconf drivers [--format yaml|json|table]
//	stackconf serve   [--port N]
//
// Inventories may be files (YAML or JSON by extension) or ConfigMaps
// (cm://namespace/name, key inventory.yaml).
//
// # Global Flags
//
//	--debug     Enable debug logging
//	--log-json  Output logs in JSON format
//	--config    Engine settings file; STACKCONF_* variables override it
//
// # Exit Codes
//
//	0  Every application resolved and rendered
//	1  Invalid arguments, or at least one application failed
//
// The CLI uses the urfave/cli/v3 framework. Version information is embedded
// at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/stackconf/stackconf/pkg/cli.version=1.0.0'"
package cli
