// Package appserver implements the application server drivers. Each driver
// resolves worker, socket and PID settings for one process manager and
// describes a control script that owns the process lifecycle. The engine
// registers the result as a do-nothing service: start, stop, restart and
// status are literal invocations of that script, so the contract holds on
// any init system.
package appserver

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/driver"
	"github.com/stackconf/stackconf/pkg/mapping"
)

// Process mapping keys shared by every application server driver.
const (
	KeyAppName        = "app_name"
	KeyDeployRoot     = "deploy_root"
	KeyEnvironment    = "environment"
	KeyWorkers        = "workers"
	KeyTimeout        = "timeout"
	KeySocket         = "socket"
	KeyPIDFile        = "pid_file"
	KeyStdoutLog      = "stdout_log"
	KeyStderrLog      = "stderr_log"
	KeyEnvVars        = "env_vars"
	KeyConfigFile     = "config_file"
	KeyControlScript  = "control_script"
	KeyServiceName    = "service_name"
	KeyStartCommand   = "start_command"
	KeyStopCommand    = "stop_command"
	KeyRestartCommand = "restart_command"
	KeyStatusCommand  = "status_command"
)

// RequiredKeys lists the keys every process mapping must contain.
var RequiredKeys = []string{
	KeyAppName, KeyDeployRoot, KeyEnvironment, KeyWorkers, KeyTimeout,
	KeySocket, KeyPIDFile, KeyEnvVars, KeyConfigFile, KeyControlScript,
	KeyServiceName, KeyStartCommand, KeyStopCommand, KeyRestartCommand, KeyStatusCommand,
}

// Commands are the four service-control invocations of a control script.
type Commands struct {
	Start   string
	Stop    string
	Restart string
	Status  string
}

// NewCommands derives the control commands from the control script path.
// The result depends on nothing else, so it is reproducible byte for byte.
func NewCommands(controlScript string) Commands {
	return Commands{
		Start:   controlScript + " start",
		Stop:    controlScript + " stop",
		Restart: controlScript + " restart",
		Status:  controlScript + " status",
	}
}

// ControlScriptPath returns <root>/shared/scripts/<server>.service.
func ControlScriptPath(deployRoot, server string) string {
	return filepath.Join(deployRoot, "shared", "scripts", server+".service")
}

// ServiceName returns the managed service name, <server>_<shortname>.
func ServiceName(server, shortname string) string {
	return fmt.Sprintf("%s_%s", server, shortname)
}

// base holds the process manager specific parts of a driver.
type base struct {
	name           string
	discriminators []string
	configFile     string
	extraKeys      []string

	// extras appends server-specific keys after the common ones.
	extras func(b *mapping.Builder, attrs *attributes.Attributes)
}

func (d *base) Name() string             { return d.name }
func (d *base) Concern() driver.Concern  { return driver.ConcernAppServer }
func (d *base) Discriminators() []string { return append([]string(nil), d.discriminators...) }

// GetTemplate implements driver.TemplateProvider.
func (d *base) GetTemplate(name string) (string, bool) {
	return GetTemplate(name)
}

// Resolve builds the process mapping.
func (d *base) Resolve(attrs *attributes.Attributes, _ *config.Config) (*mapping.Mapping, error) {
	shared := filepath.Join(attrs.DeployRoot, "shared")
	script := ControlScriptPath(attrs.DeployRoot, d.name)
	cmds := NewCommands(script)

	env := make([]mapping.Pair, 0, len(attrs.EnvVars))
	for _, v := range attrs.EnvVars {
		env = append(env, mapping.Pair{Key: v.Key, Value: v.Value})
	}

	b := mapping.NewBuilder().
		Set(KeyAppName, attrs.Shortname).
		Set(KeyDeployRoot, attrs.DeployRoot).
		Set(KeyEnvironment, attrs.Environment).
		Set(KeyWorkers, attrs.AppServer.Workers).
		Set(KeyTimeout, attrs.AppServer.Timeout).
		Set(KeySocket, filepath.Join(shared, "sockets", d.name+".sock")).
		Set(KeyPIDFile, filepath.Join(shared, "pids", d.name+".pid")).
		Set(KeyStdoutLog, filepath.Join(shared, "log", d.name+".stdout.log")).
		Set(KeyStderrLog, filepath.Join(shared, "log", d.name+".stderr.log")).
		Set(KeyEnvVars, env).
		Set(KeyConfigFile, filepath.Join(shared, "config", d.configFile)).
		Set(KeyControlScript, script).
		Set(KeyServiceName, ServiceName(d.name, attrs.Shortname)).
		Set(KeyStartCommand, cmds.Start).
		Set(KeyStopCommand, cmds.Stop).
		Set(KeyRestartCommand, cmds.Restart).
		Set(KeyStatusCommand, cmds.Status)

	if d.extras != nil {
		d.extras(b, attrs)
	}

	return b.Build(slices.Concat(RequiredKeys, d.extraKeys)...)
}

// Service describes the do-nothing managed service for m.
func (d *base) Service(m *mapping.Mapping) driver.Service {
	return driver.Service{
		Name:           m.String(KeyServiceName),
		Action:         driver.ServiceActionNothing,
		ControlScript:  m.String(KeyControlScript),
		StartCommand:   m.String(KeyStartCommand),
		StopCommand:    m.String(KeyStopCommand),
		RestartCommand: m.String(KeyRestartCommand),
		StatusCommand:  m.String(KeyStatusCommand),
		PIDFile:        m.String(KeyPIDFile),
	}
}

// Artifacts declares the server config file, the control script and, when
// a unit directory is configured, a systemd wrapper unit.
func (d *base) Artifacts(_ *attributes.Attributes, m *mapping.Mapping, cfg *config.Config) []driver.Artifact {
	artifacts := []driver.Artifact{
		{
			Kind:     driver.ArtifactTemplate,
			Path:     m.String(KeyConfigFile),
			Template: d.configFile,
			Mode:     0o644,
		},
		{
			Kind:     driver.ArtifactTemplate,
			Path:     m.String(KeyControlScript),
			Template: d.name + ".service",
			Mode:     0o755,
		},
	}
	if dir := cfg.SystemdUnitDir(); dir != "" {
		artifacts = append(artifacts, driver.Artifact{
			Kind: driver.ArtifactSystemdUnit,
			Path: filepath.Join(dir, m.String(KeyServiceName)+".service"),
			Mode: 0o644,
		})
	}
	return artifacts
}
