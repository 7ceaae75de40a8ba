package remote

import (
	"path"
	"strings"
	"time"
)

const (
	// BackupTimeLayout sorts lexicographically in chronological order.
	BackupTimeLayout = "2006-01-02-15-04-05"
	BackupSuffix     = "_backup.tar.gz"
)

// Stamp formats t for use in a backup archive name.
func Stamp(t time.Time) string {
	return t.Format(BackupTimeLayout)
}

// ParseBackupListing splits the output of a ListBackups command into archive
// paths, preserving the order the remote host returned them in.
func ParseBackupListing(output string) []string {
	var backups []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		backups = append(backups, line)
	}
	return backups
}

// BackupTime extracts the creation time encoded in an archive name.
func BackupTime(archive string) (time.Time, bool) {
	name := path.Base(archive)
	if !strings.HasSuffix(name, BackupSuffix) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(BackupTimeLayout, strings.TrimSuffix(name, BackupSuffix), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
