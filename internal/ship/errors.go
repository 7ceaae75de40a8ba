package ship

import (
	"errors"
	"fmt"

	"distship/internal/remote"
)

var (
	ErrNoBackups     = errors.New("no backups found; deploy at least once before rolling back")
	ErrSourceMissing = errors.New("local source directory does not exist")
	ErrSourceEmpty   = errors.New("local source directory is empty")
)

// Step names the pipeline stage a remote command belongs to.
type Step string

const (
	StepBackup   Step = "backup"
	StepTransfer Step = "transfer"
	StepList     Step = "list backups"
	StepRestore  Step = "restore"
)

// RemoteCommandError is returned when a remote shell or transfer invocation
// exits non-zero.
type RemoteCommandError struct {
	Step    Step
	Command remote.Command
	// BackupPath is set when a backup was taken before the failure.
	BackupPath string
	Err        error
}

func (rce *RemoteCommandError) Error() string {
	return fmt.Sprintf("%s step failed: %v", rce.Step, rce.Err)
}

func (rce *RemoteCommandError) Unwrap() error {
	return rce.Err
}
