package ship

import (
	"context"
	"fmt"

	"distship/internal/config"
	"distship/internal/remote"
)

// RollbackResult describes a finished rollback.
type RollbackResult struct {
	DryRun    bool
	Target    string
	Available []string
	Command   remote.Command
}

// Rollbacker restores the remote target from a backup archive.
type Rollbacker struct {
	cfg  *config.DeploymentConfig
	exec remote.Executor
	rt   runtime
}

func NewRollbacker(cfg *config.DeploymentConfig, exec remote.Executor, opts ...Option) *Rollbacker {
	return &Rollbacker{cfg: cfg, exec: exec, rt: newRuntime(opts)}
}

// ListBackups returns the archive paths on the remote host, newest first, in
// the order the remote listing produced them.
func (r *Rollbacker) ListBackups(ctx context.Context) ([]string, error) {
	builder, err := remote.NewBuilder(r.cfg)
	if err != nil {
		return nil, err
	}

	cmd := builder.ListBackups()
	r.rt.log.Debug("$ %s", cmd)
	out, err := r.exec.Execute(ctx, cmd, nil)
	if err != nil {
		return nil, &RemoteCommandError{Step: StepList, Command: cmd, Err: err}
	}
	return remote.ParseBackupListing(out), nil
}

// Rollback restores the most recent backup over the target directory.
func (r *Rollbacker) Rollback(ctx context.Context) (*RollbackResult, error) {
	log := r.rt.log

	builder, err := remote.NewBuilder(r.cfg)
	if err != nil {
		return nil, err
	}

	backups, err := r.ListBackups(ctx)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, fmt.Errorf("%w (looked in %s)", ErrNoBackups, r.cfg.BackupDir)
	}

	log.Info("Available backups (newest first):")
	for i, b := range backups {
		log.Info("  %d. %s", i+1, b)
	}

	// The listing is already newest-first.
	target := backups[0]
	cmd := builder.Restore(target)
	result := &RollbackResult{
		DryRun:    r.rt.dryRun,
		Target:    target,
		Available: backups,
		Command:   cmd,
	}

	if r.rt.dryRun {
		log.Info("[dry-run] %s", cmd)
		return result, nil
	}

	log.Info("Restoring %s into %s:%s", target, r.cfg.RemoteHost, r.cfg.RemoteTargetDir)
	log.Debug("$ %s", cmd)
	if _, err := r.exec.Execute(ctx, cmd, r.rt.stream); err != nil {
		return nil, &RemoteCommandError{Step: StepRestore, Command: cmd, BackupPath: target, Err: err}
	}

	log.Success("Rolled back to %s", target)
	return result, nil
}
