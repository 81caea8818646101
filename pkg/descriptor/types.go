package descriptor

import "strings"

// Application describes one deployable application as published by the
// directory service. It is read-only input to the engine. Environment holds
// the application's environment variables; SSLConfiguration is nil when the
// operator supplied no TLS material.
type Application struct {
	AppID            string            `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	Shortname        string            `json:"shortname" yaml:"shortname"`
	Name             string            `json:"name,omitempty" yaml:"name,omitempty"`
	Domains          []string          `json:"domains,omitempty" yaml:"domains,omitempty"`
	Environment      map[string]string `json:"environment,omitempty" yaml:"environment,omitempty"`
	EnableSSL        bool              `json:"enable_ssl,omitempty" yaml:"enable_ssl,omitempty"`
	SSLConfiguration *SSLConfiguration `json:"ssl_configuration,omitempty" yaml:"ssl_configuration,omitempty"`
	DataSources      []DataSource      `json:"data_sources,omitempty" yaml:"data_sources,omitempty"`
	Attributes       AppAttributes     `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// AppAttributes are optional per-application settings from the directory service.
type AppAttributes struct {
	RailsEnv     string `json:"rails_env,omitempty" yaml:"rails_env,omitempty"`
	DocumentRoot string `json:"document_root,omitempty" yaml:"document_root,omitempty"`
}

// SSLConfiguration is the TLS material an operator attached to an application.
// The DH parameters are not part of the directory record; they come from the
// override tree.
type SSLConfiguration struct {
	PrivateKey  string `json:"private_key,omitempty" yaml:"private_key,omitempty"`
	Certificate string `json:"certificate,omitempty" yaml:"certificate,omitempty"`
	Chain       string `json:"chain,omitempty" yaml:"chain,omitempty"`
}

// DataSource links an application to a data store. ARN is the join key.
type DataSource struct {
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	ARN          string `json:"arn,omitempty" yaml:"arn,omitempty"`
	DatabaseName string `json:"database_name,omitempty" yaml:"database_name,omitempty"`
}

// DataStore describes a managed database instance linked to applications.
// Port is an int or a numeric string depending on the publisher.
type DataStore struct {
	ARN                  string `json:"rds_db_instance_arn" yaml:"rds_db_instance_arn"`
	Engine               string `json:"engine" yaml:"engine"`
	Address              string `json:"address,omitempty" yaml:"address,omitempty"`
	Port                 any    `json:"port,omitempty" yaml:"port,omitempty"`
	DBInstanceIdentifier string `json:"db_instance_identifier,omitempty" yaml:"db_instance_identifier,omitempty"`
	DBName               string `json:"db_name,omitempty" yaml:"db_name,omitempty"`
	DBUser               string `json:"db_user,omitempty" yaml:"db_user,omitempty"`
	DBPassword           string `json:"db_password,omitempty" yaml:"db_password,omitempty"`
	Region               string `json:"region,omitempty" yaml:"region,omitempty"`
}

// FirstDomain returns the first declared domain, or the shortname when the
// application declares none.
func (a *Application) FirstDomain() string {
	for _, d := range a.Domains {
		if d = strings.TrimSpace(d); d != "" {
			return d
		}
	}
	return a.Shortname
}
