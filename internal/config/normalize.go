package config

import (
	"fmt"
	"path"
	"strings"
)

// Normalize validates opts and fills every default, returning a fully
// resolved DeploymentConfig. Values set in opts always win over defaults.
func Normalize(opts Options) (*DeploymentConfig, error) {
	host := strings.TrimSpace(opts.RemoteHost)
	if host == "" {
		return nil, fieldError("remoteHost", ErrMissingField)
	}

	target := strings.TrimSpace(opts.RemoteTargetDir)
	if target == "" {
		return nil, fieldError("remoteTargetDir", ErrMissingField)
	}
	if !strings.HasPrefix(target, "/") {
		return nil, fieldError("remoteTargetDir", fmt.Errorf("%w: %q", ErrRelativeTarget, target))
	}
	target = path.Clean(target)

	port := opts.RemotePort
	if port == 0 {
		port = DefaultRemotePort
	}
	if port < 1 || port > 65535 {
		return nil, fieldError("remotePort", fmt.Errorf("%w: %d", ErrInvalidPort, port))
	}

	transport, err := ParseTransport(opts.Transport)
	if err != nil {
		return nil, fieldError("transport", err)
	}

	backupDir := firstNonEmpty(opts.BackupDir, target+BackupDirSuffix)
	if within(target, backupDir) {
		return nil, fieldError("backupDir", fmt.Errorf("%w: %q is inside %q", ErrBackupInsideTarget, backupDir, target))
	}

	return &DeploymentConfig{
		RemoteHost:      host,
		RemoteUser:      firstNonEmpty(opts.RemoteUser, DefaultRemoteUser),
		RemotePort:      port,
		RemoteTargetDir: target,
		BackupDir:       backupDir,
		PrivateKeyPath:  strings.TrimSpace(opts.PrivateKeyPath),
		Transport:       transport,
		LocalSourceDir:  firstNonEmpty(opts.LocalSourceDir, opts.Build.OutDir, DefaultLocalSourceDir),
		AutoConfirm:     opts.AutoConfirm,
	}, nil
}

// ParseTransport maps a configured transport name onto a Transport. An empty
// name selects the default.
func ParseTransport(name string) (Transport, error) {
	switch Transport(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultTransport, nil
	case TransportCopy:
		return TransportCopy, nil
	case TransportSync:
		return TransportSync, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownTransport, name, TransportCopy, TransportSync)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// within reports whether dir is root itself or lies below it. Every backup
// would otherwise be archived into the next one and restored into the site.
func within(root, dir string) bool {
	dir = path.Clean(dir)
	if dir == root {
		return true
	}
	return strings.HasPrefix(dir, strings.TrimSuffix(root, "/")+"/")
}
