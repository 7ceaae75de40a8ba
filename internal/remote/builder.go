package remote

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/alessio/shellescape"

	"distship/internal/config"
)

// ErrNoSources is returned when a copy transfer has nothing to send.
var ErrNoSources = errors.New("no local entries to transfer")

// Builder turns a DeploymentConfig into the literal commands that back up,
// transfer, list and restore. It performs no I/O.
type Builder struct {
	cfg     *config.DeploymentConfig
	sshOpts []string
	sshBase Command
}

// NewBuilder validates the transport and precomputes the ssh invocation
// shared by every remote command.
func NewBuilder(cfg *config.DeploymentConfig) (*Builder, error) {
	switch cfg.Transport {
	case config.TransportCopy, config.TransportSync:
	default:
		return nil, &config.ConfigError{
			Field: "transport",
			Err:   fmt.Errorf("%w: %q", config.ErrUnknownTransport, cfg.Transport),
		}
	}

	opts := []string{"-p", strconv.Itoa(cfg.RemotePort)}
	if cfg.HasKey() {
		opts = append(opts, "-i", cfg.PrivateKeyPath)
	}

	return &Builder{
		cfg:     cfg,
		sshOpts: opts,
		sshBase: Command{
			Name: "ssh",
			Args: append(append([]string{}, opts...), cfg.Destination()),
		},
	}, nil
}

// SSHBase returns the bare remote-shell invocation.
func (b *Builder) SSHBase() Command {
	return b.sshBase.clone()
}

// Remote wraps a remote shell script in the ssh invocation. The script is
// passed as a single argument and interpreted by the remote shell.
func (b *Builder) Remote(script string) Command {
	cmd := b.sshBase.clone()
	cmd.Args = append(cmd.Args, script)
	return cmd
}

// BackupPath returns the archive path for a deployment started at stamp,
// which must already be formatted with BackupTimeLayout.
func (b *Builder) BackupPath(stamp string) string {
	return path.Join(b.cfg.BackupDir, stamp+BackupSuffix)
}

// Backup archives the whole target directory into archive. The target is
// created first so the very first deployment has something to archive.
func (b *Builder) Backup(archive string) Command {
	return b.Remote(fmt.Sprintf("mkdir -p %s %s && tar -czf %s -C %s .",
		q(b.cfg.BackupDir), q(b.cfg.RemoteTargetDir), q(archive), q(b.cfg.RemoteTargetDir)))
}

// Transfer pushes the local build to the target directory. For the copy
// transport, entries are the top-level paths inside the source directory;
// the sync transport sends the directory contents itself and ignores them.
func (b *Builder) Transfer(entries []string) (Command, error) {
	switch b.cfg.Transport {
	case config.TransportCopy:
		return b.copyCommand(entries)
	case config.TransportSync:
		return b.syncCommand(), nil
	default:
		return Command{}, fmt.Errorf("%w: %q", config.ErrUnknownTransport, b.cfg.Transport)
	}
}

func (b *Builder) copyCommand(entries []string) (Command, error) {
	if len(entries) == 0 {
		return Command{}, fmt.Errorf("%w in %s", ErrNoSources, b.cfg.LocalSourceDir)
	}

	args := []string{"-P", strconv.Itoa(b.cfg.RemotePort)}
	if b.cfg.HasKey() {
		args = append(args, "-i", b.cfg.PrivateKeyPath)
	}
	args = append(args, "-r")
	args = append(args, entries...)
	args = append(args, b.cfg.Destination()+":"+b.cfg.RemoteTargetDir)

	return Command{Name: "scp", Args: args}, nil
}

func (b *Builder) syncCommand() Command {
	rsh := shellescape.QuoteCommand(append([]string{"ssh"}, b.sshOpts...))
	src := strings.TrimSuffix(b.cfg.LocalSourceDir, "/") + "/"
	dst := b.cfg.Destination() + ":" + strings.TrimSuffix(b.cfg.RemoteTargetDir, "/") + "/"

	return Command{
		Name: "rsync",
		Args: []string{"-az", "-e", rsh, src, dst},
	}
}

// ListBackups prints the archives under the backup directory, newest first,
// one path per line. Archive names sort chronologically, so a reverse name
// sort is used rather than mtime. A missing directory or no archives prints
// nothing.
func (b *Builder) ListBackups() Command {
	return b.Remote(fmt.Sprintf("ls -1r %s/*%s 2>/dev/null || true", q(b.cfg.BackupDir), BackupSuffix))
}

// Restore extracts archive over the target directory, replacing files that
// exist in the archive.
func (b *Builder) Restore(archive string) Command {
	return b.Remote(fmt.Sprintf("mkdir -p %s && tar -xzf %s -C %s",
		q(b.cfg.RemoteTargetDir), q(archive), q(b.cfg.RemoteTargetDir)))
}

func (c Command) clone() Command {
	return Command{Name: c.Name, Args: append([]string{}, c.Args...)}
}

func q(s string) string {
	return shellescape.Quote(s)
}
