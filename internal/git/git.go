// Package git reports which revision of the working tree is being deployed.
package git

import (
	"context"
	"fmt"
	"strings"

	"distship/internal/remote"
)

// Revision identifies the commit the local build was produced from.
type Revision struct {
	Commit string
	Dirty  bool
}

func (r Revision) String() string {
	if r.Dirty {
		return r.Commit + "-dirty"
	}
	return r.Commit
}

// Describe returns the short commit hash of HEAD and whether the working tree
// has uncommitted changes.
func Describe(ctx context.Context, exec remote.Executor) (Revision, error) {
	out, err := exec.Execute(ctx, remote.Command{Name: "git", Args: []string{"rev-parse", "--short=7", "HEAD"}}, nil)
	if err != nil {
		return Revision{}, fmt.Errorf("git command failed: %w", err)
	}
	rev := Revision{Commit: strings.TrimSpace(out)}

	status, err := exec.Execute(ctx, remote.Command{Name: "git", Args: []string{"status", "--porcelain"}}, nil)
	if err != nil {
		return rev, fmt.Errorf("git command failed: %w", err)
	}
	rev.Dirty = strings.TrimSpace(status) != ""
	return rev, nil
}
