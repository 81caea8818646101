package driver

import (
	"fmt"
	"os"

	"github.com/stackconf/stackconf/pkg/attributes"
	"github.com/stackconf/stackconf/pkg/config"
	"github.com/stackconf/stackconf/pkg/descriptor"
	"github.com/stackconf/stackconf/pkg/mapping"
)

// Concern identifies which part of the stack a driver configures.
type Concern string

const (
	// ConcernDatabase drivers produce connection settings.
	ConcernDatabase Concern = "database"

	// ConcernAppServer drivers produce process supervision settings.
	ConcernAppServer Concern = "appserver"

	// ConcernWebServer drivers produce virtual host settings.
	ConcernWebServer Concern = "webserver"
)

// ParseConcern converts a string to a Concern.
func ParseConcern(s string) (Concern, error) {
	switch s {
	case string(ConcernDatabase):
		return ConcernDatabase, nil
	case string(ConcernAppServer):
		return ConcernAppServer, nil
	case string(ConcernWebServer):
		return ConcernWebServer, nil
	default:
		return "", fmt.Errorf("unknown concern: %s", s)
	}
}

// SupportedConcerns returns every concern in resolution order.
func SupportedConcerns() []Concern {
	return []Concern{
		ConcernDatabase,
		ConcernAppServer,
		ConcernWebServer,
	}
}

// Driver is implemented by every driver. Discriminators are the names an
// operator or a linked store may use to select the driver; the first one is
// the canonical name.
type Driver interface {
	Name() string
	Concern() Concern
	Discriminators() []string
	Artifacts(attrs *attributes.Attributes, m *mapping.Mapping, cfg *config.Config) []Artifact
}

// DatabaseDriver resolves connection settings. store is nil when the
// application is not linked to a data store.
type DatabaseDriver interface {
	Driver
	Resolve(attrs *attributes.Attributes, store *descriptor.DataStore) (*mapping.Mapping, error)
}

// AppServerDriver resolves process supervision settings.
type AppServerDriver interface {
	Driver
	Resolve(attrs *attributes.Attributes, cfg *config.Config) (*mapping.Mapping, error)
	Service(m *mapping.Mapping) Service
}

// WebServerDriver resolves virtual host settings.
type WebServerDriver interface {
	Driver
	Resolve(attrs *attributes.Attributes, tls TLSPaths, cfg *config.Config) (*mapping.Mapping, error)
}

// TLSPaths is the part of a TLS material record the web server references.
type TLSPaths struct {
	KeyPath         string
	CertificatePath string
	ChainPath       string
	DHParamsPath    string
}

// ArtifactKind selects how the renderer produces an artifact.
type ArtifactKind string

const (
	// ArtifactTemplate renders Template with the mapping.
	ArtifactTemplate ArtifactKind = "template"

	// ArtifactEnvironments writes the mapping fanned out per environment as YAML.
	ArtifactEnvironments ArtifactKind = "environments"

	// ArtifactSystemdUnit writes the service as a systemd unit.
	ArtifactSystemdUnit ArtifactKind = "systemd-unit"

	// ArtifactSymlink links Path to Target.
	ArtifactSymlink ArtifactKind = "symlink"
)

// Artifact is one host file produced from a resolved mapping. Paths are
// absolute host paths; the renderer applies the configured root prefix.
type Artifact struct {
	Kind     ArtifactKind `json:"kind" yaml:"kind"`
	Path     string       `json:"path" yaml:"path"`
	Template string       `json:"template,omitempty" yaml:"template,omitempty"`
	Target   string       `json:"target,omitempty" yaml:"target,omitempty"`
	Mode     os.FileMode  `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// Service is a managed service whose lifecycle is delegated entirely to a
// generated control script. Action is always "nothing": the engine never
// starts or stops it, it only records how to.
type Service struct {
	Name           string `json:"name" yaml:"name"`
	Action         string `json:"action" yaml:"action"`
	ControlScript  string `json:"control_script" yaml:"control_script"`
	StartCommand   string `json:"start_command" yaml:"start_command"`
	StopCommand    string `json:"stop_command" yaml:"stop_command"`
	RestartCommand string `json:"restart_command" yaml:"restart_command"`
	StatusCommand  string `json:"status_command" yaml:"status_command"`
	PIDFile        string `json:"pid_file" yaml:"pid_file"`
}

// ServiceActionNothing marks a service the engine defines but never runs.
const ServiceActionNothing = "nothing"
