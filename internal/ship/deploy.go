package ship

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"distship/internal/config"
	"distship/internal/prompt"
	"distship/internal/remote"
)

// DeployResult describes a finished (or skipped) deployment.
type DeployResult struct {
	Skipped    bool
	DryRun     bool
	Source     string
	BackupPath string
	StartedAt  time.Time
	Duration   time.Duration
	Commands   []remote.Command
}

// Deployer backs up the remote target and then pushes the local build.
type Deployer struct {
	cfg  *config.DeploymentConfig
	exec remote.Executor
	term prompt.Terminal
	rt   runtime
}

func NewDeployer(cfg *config.DeploymentConfig, exec remote.Executor, term prompt.Terminal, opts ...Option) *Deployer {
	return &Deployer{cfg: cfg, exec: exec, term: term, rt: newRuntime(opts)}
}

// Deploy runs the pipeline: resolve source, confirm, back up, transfer. outDir,
// when non-empty, is the build output reported by the build step and
// replaces the configured source directory. A declined confirmation returns a
// skipped result and no error. The transfer never starts unless the backup
// succeeded.
func (d *Deployer) Deploy(ctx context.Context, outDir string) (*DeployResult, error) {
	cfg := d.cfg.WithSource(outDir)
	log := d.rt.log

	builder, err := remote.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}

	entries, err := d.sourceEntries(cfg.LocalSourceDir)
	if err != nil {
		return nil, err
	}

	if !prompt.ShouldProceed(ctx, cfg, d.term) {
		log.Info("Deployment skipped")
		return &DeployResult{Skipped: true, Source: cfg.LocalSourceDir}, nil
	}

	started := d.rt.now()
	archive := builder.BackupPath(remote.Stamp(started))
	result := &DeployResult{
		DryRun:     d.rt.dryRun,
		Source:     cfg.LocalSourceDir,
		BackupPath: archive,
		StartedAt:  started,
	}

	backupCmd := builder.Backup(archive)
	transferCmd, err := builder.Transfer(entries)
	if err != nil {
		return nil, err
	}
	result.Commands = []remote.Command{backupCmd, transferCmd}

	if d.rt.dryRun {
		log.Warn("DRY RUN: no changes will be made")
		for _, cmd := range result.Commands {
			log.Info("[dry-run] %s", cmd)
		}
		return result, nil
	}

	log.Info("Backing up %s:%s to %s", cfg.RemoteHost, cfg.RemoteTargetDir, archive)
	log.Debug("$ %s", backupCmd)
	if _, err := d.exec.Execute(ctx, backupCmd, d.rt.stream); err != nil {
		return nil, &RemoteCommandError{Step: StepBackup, Command: backupCmd, Err: err}
	}

	log.Info("Uploading %s via %s", cfg.LocalSourceDir, cfg.Transport)
	log.Debug("$ %s", transferCmd)
	if _, err := d.exec.Execute(ctx, transferCmd, d.rt.stream); err != nil {
		log.Error("Upload failed; %s may now hold a partial release", cfg.RemoteTargetDir)
		log.Error("The previous release is saved in %s; run `distship rollback` to restore it", archive)
		return nil, &RemoteCommandError{Step: StepTransfer, Command: transferCmd, BackupPath: archive, Err: err}
	}

	result.Duration = d.rt.now().Sub(started)
	log.Success("Deployed %s to %s:%s", cfg.LocalSourceDir, cfg.RemoteHost, cfg.RemoteTargetDir)
	log.Success("Backup saved as %s", archive)
	return result, nil
}

// sourceEntries returns the top-level paths inside dir in name order.
func (d *Deployer) sourceEntries(dir string) ([]string, error) {
	infos, err := afero.ReadDir(d.rt.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, dir)
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSourceEmpty, dir)
	}

	entries := make([]string, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, sourceEntry(dir, info.Name()))
	}
	return entries, nil
}

// sourceEntry joins dir and name so that scp always reads the result as a
// local path: a bare "-x" would be an option and "a:b" a remote host.
func sourceEntry(dir, name string) string {
	if filepath.Clean(dir) == "." {
		return "./" + name
	}
	return filepath.Join(dir, name)
}
