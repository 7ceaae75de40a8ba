package config

import (
	"fmt"
	"io"
	"strings"
)

func ShowConfigSummary(out io.Writer, cfg *DeploymentConfig) {
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "🎉 Deployment Summary")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	fmt.Fprintf(out, "🚀 Server: %s (port %d)\n", cfg.Destination(), cfg.RemotePort)
	if cfg.HasKey() {
		fmt.Fprintf(out, "🔑 Key: %s\n", cfg.PrivateKeyPath)
	}
	fmt.Fprintf(out, "📦 Source: %s\n", cfg.LocalSourceDir)
	fmt.Fprintf(out, "🎯 Target: %s\n", cfg.RemoteTargetDir)
	fmt.Fprintf(out, "💾 Backups: %s\n", cfg.BackupDir)
	fmt.Fprintf(out, "🚚 Transport: %s\n", cfg.Transport)
	if cfg.AutoConfirm {
		fmt.Fprintln(out, "🤖 Auto-confirm: Enabled")
	}

	fmt.Fprintln(out, strings.Repeat("=", 50))
}
