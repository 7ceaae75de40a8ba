package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteConfig when the target file exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

const sampleHeader = `# distship deployment configuration.
# Environment variables named DISTSHIP_<FIELD> (e.g. DISTSHIP_REMOTE_HOST)
# override the values below. A .env file next to this one is read too.
`

// SampleOptions returns a filled-in example configuration.
func SampleOptions() Options {
	return Options{
		RemoteHost:      "203.0.113.10",
		RemoteUser:      DefaultRemoteUser,
		RemotePort:      DefaultRemotePort,
		RemoteTargetDir: "/var/www/app",
		BackupDir:       "/var/www/app" + BackupDirSuffix,
		PrivateKeyPath:  "~/.ssh/id_ed25519",
		Transport:       string(TransportCopy),
		LocalSourceDir:  DefaultLocalSourceDir,
		Build: BuildOptions{
			Command: "npm run build",
			OutDir:  DefaultLocalSourceDir,
		},
	}
}

// Marshal renders opts as the YAML document Load reads back.
func Marshal(opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(sampleHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(opts); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteConfig writes opts to path. Existing files are kept unless force is set.
func WriteConfig(fs afero.Fs, path string, opts Options, force bool) error {
	if !force {
		if ok, _ := afero.Exists(fs, path); ok {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := Marshal(opts)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// GenerateSampleConfig writes SampleOptions to path on the OS filesystem.
func GenerateSampleConfig(path string, force bool) error {
	return WriteConfig(afero.NewOsFs(), path, SampleOptions(), force)
}
