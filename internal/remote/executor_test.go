package remote

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"distship/internal/config"
)

func TestLocalExecutor_Execute(t *testing.T) {
	var stream bytes.Buffer
	out, err := (&LocalExecutor{}).Execute(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo hello; echo oops >&2"},
	}, &stream)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello\n" {
		t.Errorf("stdout = %q, want %q", out, "hello\n")
	}
	if !strings.Contains(stream.String(), "hello") || !strings.Contains(stream.String(), "oops") {
		t.Errorf("stream = %q, want both stdout and stderr", stream.String())
	}
}

func TestLocalExecutor_Failure(t *testing.T) {
	cmd := Command{Name: "sh", Args: []string{"-c", "echo partial; echo broken >&2; exit 3"}}
	out, err := (&LocalExecutor{}).Execute(context.Background(), cmd, nil)

	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("Execute() error = %v, want *ExitError", err)
	}
	if ee.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", ee.ExitCode)
	}
	if ExitCodeOf(err) != 3 {
		t.Errorf("ExitCodeOf() = %d, want 3", ExitCodeOf(err))
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q does not carry stderr", err)
	}
	if out != "partial\n" {
		t.Errorf("stdout = %q, want partial output", out)
	}
}

func TestLocalExecutor_MissingProgram(t *testing.T) {
	_, err := (&LocalExecutor{}).Execute(context.Background(), Command{Name: "distship-no-such-binary"}, nil)
	if err == nil {
		t.Fatal("Execute() error = nil, want failure")
	}
	if ExitCodeOf(err) != -1 {
		t.Errorf("ExitCodeOf() = %d, want -1", ExitCodeOf(err))
	}
}

func TestCommand_String(t *testing.T) {
	cmd := Command{Name: "ssh", Args: []string{"-p", "22", "root@h", "ls -1r /b/*_backup.tar.gz"}}
	want := `ssh -p 22 root@h 'ls -1r /b/*_backup.tar.gz'`
	if got := cmd.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestListBackups_NewestNameFirst(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"2024-01-01-00-00-00_backup.tar.gz",
		"2024-06-01-00-00-00_backup.tar.gz",
		"2025-01-01-00-00-00_backup.tar.gz",
	}
	// Older names get newer mtimes, as after a copy from another host.
	for i, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		mtime := time.Now().Add(-time.Duration(i) * time.Hour)
		if err := os.Chtimes(p, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := NewBuilder(testConfig(func(c *config.DeploymentConfig) { c.BackupDir = dir }))
	if err != nil {
		t.Fatal(err)
	}
	// Run the remote script locally, without the ssh wrapper.
	script := b.ListBackups().Args[3]
	out, err := (&LocalExecutor{}).Execute(context.Background(), Command{Name: "sh", Args: []string{"-c", script}}, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := ParseBackupListing(out)
	want := []string{
		filepath.Join(dir, names[2]),
		filepath.Join(dir, names[1]),
		filepath.Join(dir, names[0]),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("listing = %q, want %q", got, want)
	}
}

func TestListBackups_MissingDirIsEmpty(t *testing.T) {
	b, err := NewBuilder(testConfig(func(c *config.DeploymentConfig) { c.BackupDir = filepath.Join(t.TempDir(), "absent") }))
	if err != nil {
		t.Fatal(err)
	}
	out, err := (&LocalExecutor{}).Execute(context.Background(), Command{Name: "sh", Args: []string{"-c", b.ListBackups().Args[3]}}, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := ParseBackupListing(out); len(got) != 0 {
		t.Errorf("listing = %q, want none", got)
	}
}
