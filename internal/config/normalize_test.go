package config

import (
	"errors"
	"testing"
)

func TestNormalize_Defaults(t *testing.T) {
	cfg, err := Normalize(Options{
		RemoteHost:      "1.2.3.4",
		RemoteTargetDir: "/var/www/app",
		AutoConfirm:     true,
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := DeploymentConfig{
		RemoteHost:      "1.2.3.4",
		RemoteUser:      "root",
		RemotePort:      22,
		RemoteTargetDir: "/var/www/app",
		BackupDir:       "/var/www/app_backups",
		Transport:       TransportCopy,
		LocalSourceDir:  "dist",
		AutoConfirm:     true,
	}
	if *cfg != want {
		t.Errorf("Normalize() = %+v, want %+v", *cfg, want)
	}
}

func TestNormalize_ExplicitValuesWin(t *testing.T) {
	cfg, err := Normalize(Options{
		RemoteHost:      "example.com",
		RemoteUser:      "deploy",
		RemotePort:      2222,
		RemoteTargetDir: "/srv/site",
		BackupDir:       "/srv/archive",
		PrivateKeyPath:  "/home/me/.ssh/id_ed25519",
		Transport:       "sync",
		LocalSourceDir:  "public",
		Build:           BuildOptions{OutDir: "build"},
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := DeploymentConfig{
		RemoteHost:      "example.com",
		RemoteUser:      "deploy",
		RemotePort:      2222,
		RemoteTargetDir: "/srv/site",
		BackupDir:       "/srv/archive",
		PrivateKeyPath:  "/home/me/.ssh/id_ed25519",
		Transport:       TransportSync,
		LocalSourceDir:  "public",
	}
	if *cfg != want {
		t.Errorf("Normalize() = %+v, want %+v", *cfg, want)
	}
}

func TestNormalize_SourceFallsBackToBuildOutDir(t *testing.T) {
	cfg, err := Normalize(Options{
		RemoteHost:      "h",
		RemoteTargetDir: "/t",
		Build:           BuildOptions{OutDir: "out"},
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if cfg.LocalSourceDir != "out" {
		t.Errorf("LocalSourceDir = %q, want %q", cfg.LocalSourceDir, "out")
	}
}

func TestNormalize_CleansTarget(t *testing.T) {
	cfg, err := Normalize(Options{RemoteHost: "h", RemoteTargetDir: "/var/www/app/"})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if cfg.RemoteTargetDir != "/var/www/app" || cfg.BackupDir != "/var/www/app_backups" {
		t.Errorf("got target %q backup %q", cfg.RemoteTargetDir, cfg.BackupDir)
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantField string
		wantErr   error
	}{
		{
			name:      "missing host",
			opts:      Options{RemoteTargetDir: "/var/www"},
			wantField: "remoteHost",
			wantErr:   ErrMissingField,
		},
		{
			name:      "blank host",
			opts:      Options{RemoteHost: "   ", RemoteTargetDir: "/var/www"},
			wantField: "remoteHost",
			wantErr:   ErrMissingField,
		},
		{
			name:      "missing target",
			opts:      Options{RemoteHost: "h"},
			wantField: "remoteTargetDir",
			wantErr:   ErrMissingField,
		},
		{
			name:      "missing both",
			opts:      Options{},
			wantField: "remoteHost",
			wantErr:   ErrMissingField,
		},
		{
			name:      "relative target",
			opts:      Options{RemoteHost: "h", RemoteTargetDir: "www/app"},
			wantField: "remoteTargetDir",
			wantErr:   ErrRelativeTarget,
		},
		{
			name:      "port too high",
			opts:      Options{RemoteHost: "h", RemoteTargetDir: "/t", RemotePort: 70000},
			wantField: "remotePort",
			wantErr:   ErrInvalidPort,
		},
		{
			name:      "negative port",
			opts:      Options{RemoteHost: "h", RemoteTargetDir: "/t", RemotePort: -1},
			wantField: "remotePort",
			wantErr:   ErrInvalidPort,
		},
		{
			name:      "backup dir inside target",
			opts:      Options{RemoteHost: "h", RemoteTargetDir: "/var/www/app", BackupDir: "/var/www/app/backups"},
			wantField: "backupDir",
			wantErr:   ErrBackupInsideTarget,
		},
		{
			name:      "backup dir is target",
			opts:      Options{RemoteHost: "h", RemoteTargetDir: "/var/www/app", BackupDir: "/var/www/app/"},
			wantField: "backupDir",
			wantErr:   ErrBackupInsideTarget,
		},
		{
			name:      "backup dir under root target",
			opts:      Options{RemoteHost: "h", RemoteTargetDir: "/"},
			wantField: "backupDir",
			wantErr:   ErrBackupInsideTarget,
		},
		{
			name:      "unknown transport",
			opts:      Options{RemoteHost: "h", RemoteTargetDir: "/t", Transport: "ftp"},
			wantField: "transport",
			wantErr:   ErrUnknownTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Normalize(tt.opts)
			if cfg != nil {
				t.Errorf("Normalize() = %+v, want nil", cfg)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Normalize() error = %v, want *ConfigError", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ce.Field, tt.wantField)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTransport(t *testing.T) {
	tests := []struct {
		in      string
		want    Transport
		wantErr bool
	}{
		{"", TransportCopy, false},
		{"copy", TransportCopy, false},
		{"SYNC", TransportSync, false},
		{" sync ", TransportSync, false},
		{"rsync", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTransport(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTransport(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTransport(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeploymentConfig_WithSource(t *testing.T) {
	cfg := &DeploymentConfig{LocalSourceDir: "dist"}

	if got := cfg.WithSource(""); got != cfg {
		t.Errorf("WithSource(\"\") returned a copy, want the receiver")
	}

	got := cfg.WithSource("build/out")
	if got.LocalSourceDir != "build/out" {
		t.Errorf("LocalSourceDir = %q, want %q", got.LocalSourceDir, "build/out")
	}
	if cfg.LocalSourceDir != "dist" {
		t.Errorf("receiver mutated: LocalSourceDir = %q", cfg.LocalSourceDir)
	}
}

func TestNormalize_BackupDirBesideTarget(t *testing.T) {
	for _, dir := range []string{"/var/www/app_backups", "/var/www/application", "/backups/app", "backups"} {
		cfg, err := Normalize(Options{RemoteHost: "h", RemoteTargetDir: "/var/www/app", BackupDir: dir})
		if err != nil {
			t.Errorf("Normalize() with backupDir %q error = %v", dir, err)
			continue
		}
		if cfg.BackupDir != dir {
			t.Errorf("BackupDir = %q, want %q", cfg.BackupDir, dir)
		}
	}
}
