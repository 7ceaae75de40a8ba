package config

import "fmt"

// Transport is the mechanism used to push the local build to the remote host.
type Transport string

const (
	TransportCopy Transport = "copy"
	TransportSync Transport = "sync"
)

const (
	DefaultRemoteUser     = "root"
	DefaultRemotePort     = 22
	DefaultLocalSourceDir = "dist"
	DefaultTransport      = TransportCopy
	BackupDirSuffix       = "_backups"
)

// Options is the raw, partially filled record read from a config file or
// supplied programmatically. Zero values mean "not set".
type Options struct {
	RemoteHost      string       `yaml:"remoteHost" mapstructure:"remoteHost"`
	RemoteUser      string       `yaml:"remoteUser,omitempty" mapstructure:"remoteUser"`
	RemotePort      int          `yaml:"remotePort,omitempty" mapstructure:"remotePort"`
	RemoteTargetDir string       `yaml:"remoteTargetDir" mapstructure:"remoteTargetDir"`
	BackupDir       string       `yaml:"backupDir,omitempty" mapstructure:"backupDir"`
	PrivateKeyPath  string       `yaml:"privateKeyPath,omitempty" mapstructure:"privateKeyPath"`
	Transport       string       `yaml:"transport,omitempty" mapstructure:"transport"`
	LocalSourceDir  string       `yaml:"localSourceDir,omitempty" mapstructure:"localSourceDir"`
	AutoConfirm     bool         `yaml:"autoConfirm,omitempty" mapstructure:"autoConfirm"`
	Build           BuildOptions `yaml:"build,omitempty" mapstructure:"build"`
}

// BuildOptions describes the production build that precedes a deploy.
type BuildOptions struct {
	Command string `yaml:"command,omitempty" mapstructure:"command"`
	OutDir  string `yaml:"outDir,omitempty" mapstructure:"outDir"`
	// Mode is production, development or watch. Only production deploys.
	Mode    string `yaml:"mode,omitempty" mapstructure:"mode"`
}

// DeploymentConfig is the fully resolved configuration. It is never mutated
// after Normalize returns it.
type DeploymentConfig struct {
	RemoteHost      string
	RemoteUser      string
	RemotePort      int
	RemoteTargetDir string
	BackupDir       string
	PrivateKeyPath  string
	Transport       Transport
	LocalSourceDir  string
	AutoConfirm     bool
}

// Destination returns the user@host pair used by ssh, scp and rsync.
func (c *DeploymentConfig) Destination() string {
	return fmt.Sprintf("%s@%s", c.RemoteUser, c.RemoteHost)
}

// Address returns host:port for native SSH dialing.
func (c *DeploymentConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.RemoteHost, c.RemotePort)
}

// HasKey reports whether key-based authentication is configured.
func (c *DeploymentConfig) HasKey() bool {
	return c.PrivateKeyPath != ""
}

// WithSource returns a copy of c whose LocalSourceDir is dir. An empty dir
// returns c unchanged.
func (c *DeploymentConfig) WithSource(dir string) *DeploymentConfig {
	if dir == "" {
		return c
	}
	cp := *c
	cp.LocalSourceDir = dir
	return &cp
}
