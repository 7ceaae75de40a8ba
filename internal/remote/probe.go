package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"distship/internal/config"
)

var (
	ErrNoAuthMethod = errors.New("no private key configured and no ssh-agent available")
	ErrEncryptedKey = errors.New("private key is passphrase protected; load it into ssh-agent instead")
)

// ProbeOptions tunes Probe.
type ProbeOptions struct {
	// Insecure skips host key verification.
	Insecure       bool
	KnownHostsPath string
	Timeout        time.Duration
	// AgentSocket overrides SSH_AUTH_SOCK.
	AgentSocket string
}

// ProbeResult reports what Probe found on the remote host.
type ProbeResult struct {
	ServerVersion string
	TargetExists  bool
	BackupDirOK   bool
	Latency       time.Duration
}

// Probe connects to the configured host with the native SSH client and
// checks that the target and backup directories are reachable.
func Probe(ctx context.Context, cfg *config.DeploymentConfig, opts ProbeOptions) (*ProbeResult, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	auth, closeAuth, err := authMethod(cfg, opts)
	if err != nil {
		return nil, err
	}
	defer closeAuth()

	hostKeys, err := hostKeyCallback(opts)
	if err != nil {
		return nil, err
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.RemoteUser,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKeys,
		Timeout:         opts.Timeout,
	}

	start := time.Now()
	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Address(), err)
	}

	// NewClientConn has no deadline of its own and ignores ctx.
	if err := conn.SetDeadline(time.Now().Add(opts.Timeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("dial %s: %w", cfg.Address(), err)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	c, chans, reqs, err := ssh.NewClientConn(conn, cfg.Address(), clientConfig)
	if !stop() {
		// ctx fired mid-handshake and closed conn.
		if c != nil {
			c.Close()
		}
		return nil, fmt.Errorf("ssh handshake with %s: %w", cfg.Address(), ctx.Err())
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", cfg.Address(), err)
	}
	if err := conn.SetDeadline(time.Time{}); err != nil {
		c.Close()
		return nil, fmt.Errorf("ssh handshake with %s: %w", cfg.Address(), err)
	}
	client := ssh.NewClient(c, chans, reqs)
	defer client.Close()

	result := &ProbeResult{
		ServerVersion: string(client.ServerVersion()),
		Latency:       time.Since(start),
	}

	if result.TargetExists, err = testDir(client, cfg.RemoteTargetDir); err != nil {
		return result, err
	}
	if result.BackupDirOK, err = testDir(client, cfg.BackupDir); err != nil {
		return result, err
	}
	return result, nil
}

func testDir(client *ssh.Client, dir string) (bool, error) {
	session, err := client.NewSession()
	if err != nil {
		return false, fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	out, err := session.CombinedOutput(fmt.Sprintf("test -d %s && echo present || echo missing", q(dir)))
	if err != nil {
		return false, fmt.Errorf("check %s: %w: %s", dir, err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)) == "present", nil
}

func authMethod(cfg *config.DeploymentConfig, opts ProbeOptions) (ssh.AuthMethod, func(), error) {
	noop := func() {}

	if cfg.HasKey() {
		key, err := os.ReadFile(cfg.PrivateKeyPath)
		if err != nil {
			return nil, noop, fmt.Errorf("read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			var missing *ssh.PassphraseMissingError
			if errors.As(err, &missing) {
				return nil, noop, fmt.Errorf("%s: %w", cfg.PrivateKeyPath, ErrEncryptedKey)
			}
			return nil, noop, fmt.Errorf("unable to parse private key: %w", err)
		}
		return ssh.PublicKeys(signer), noop, nil
	}

	socket := opts.AgentSocket
	if socket == "" {
		socket = os.Getenv("SSH_AUTH_SOCK")
	}
	if socket == "" {
		return nil, noop, ErrNoAuthMethod
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, noop, fmt.Errorf("connect to ssh-agent: %w", err)
	}
	return ssh.PublicKeysCallback(agent.NewClient(conn).Signers), func() { conn.Close() }, nil
}

func hostKeyCallback(opts ProbeOptions) (ssh.HostKeyCallback, error) {
	if opts.Insecure {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	path := opts.KnownHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return callback, nil
}
