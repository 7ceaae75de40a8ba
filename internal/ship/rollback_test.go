package ship

import (
	"context"
	"errors"
	"strings"
	"testing"

	"distship/internal/config"
)

func rollbackConfig(t *testing.T) *config.DeploymentConfig {
	return testConfig(t, config.Options{RemoteHost: "h", RemoteTargetDir: "/srv/site"})
}

func TestRollback_RestoresNewest(t *testing.T) {
	exec := &recordingExecutor{output: "/srv/site_backups/b3_backup.tar.gz\n/srv/site_backups/b2_backup.tar.gz\n\n/srv/site_backups/b1_backup.tar.gz\n"}

	res, err := NewRollbacker(rollbackConfig(t), exec, testOptions(nil)...).Rollback(context.Background())
	if err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if res.Target != "/srv/site_backups/b3_backup.tar.gz" {
		t.Errorf("Target = %q, want b3", res.Target)
	}
	if len(res.Available) != 3 {
		t.Errorf("Available = %q, want 3 entries", res.Available)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("executed %d commands, want list and restore", len(exec.calls))
	}
	restore := exec.calls[1].String()
	if !strings.Contains(restore, "tar -xzf /srv/site_backups/b3_backup.tar.gz -C /srv/site") {
		t.Errorf("restore = %s", restore)
	}
}

func TestRollback_NoBackups(t *testing.T) {
	for _, output := range []string{"", "\n  \n"} {
		exec := &recordingExecutor{output: output}

		_, err := NewRollbacker(rollbackConfig(t), exec, testOptions(nil)...).Rollback(context.Background())
		if !errors.Is(err, ErrNoBackups) {
			t.Errorf("Rollback() error = %v, want ErrNoBackups", err)
		}
		if len(exec.calls) != 1 {
			t.Errorf("executed %d commands, want only the listing", len(exec.calls))
		}
	}
}

func TestRollback_RestoreFailure(t *testing.T) {
	exec := &recordingExecutor{output: "/srv/site_backups/b1_backup.tar.gz\n", failOn: "tar -xzf"}

	_, err := NewRollbacker(rollbackConfig(t), exec, testOptions(nil)...).Rollback(context.Background())

	var rce *RemoteCommandError
	if !errors.As(err, &rce) || rce.Step != StepRestore {
		t.Fatalf("Rollback() error = %v, want restore RemoteCommandError", err)
	}
	if rce.BackupPath != "/srv/site_backups/b1_backup.tar.gz" {
		t.Errorf("BackupPath = %q", rce.BackupPath)
	}
}

func TestRollback_ListFailure(t *testing.T) {
	exec := &recordingExecutor{failOn: "ls -1r"}

	_, err := NewRollbacker(rollbackConfig(t), exec, testOptions(nil)...).Rollback(context.Background())

	var rce *RemoteCommandError
	if !errors.As(err, &rce) || rce.Step != StepList {
		t.Fatalf("Rollback() error = %v, want list RemoteCommandError", err)
	}
	if len(exec.calls) != 1 {
		t.Errorf("executed %d commands, want 1", len(exec.calls))
	}
}

func TestRollback_DryRunOnlyLists(t *testing.T) {
	exec := &recordingExecutor{output: "/srv/site_backups/b1_backup.tar.gz\n"}
	opts := append(testOptions(nil), WithDryRun(true))

	res, err := NewRollbacker(rollbackConfig(t), exec, opts...).Rollback(context.Background())
	if err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}
	if !res.DryRun || res.Command.Name != "ssh" {
		t.Errorf("result = %+v", res)
	}
	if len(exec.calls) != 1 {
		t.Errorf("executed %d commands, want only the listing", len(exec.calls))
	}
}
