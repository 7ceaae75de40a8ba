package prompt

import (
	"context"
	"errors"
	"strings"

	"distship/internal/config"
	"distship/internal/logger"
)

// ConfirmMessage is shown before a deployment touches the server.
const ConfirmMessage = "Deploy the build to the remote server? (y/N): "

// ErrPromptUnavailable means nobody can answer the prompt. It is a decline,
// not a failure.
var ErrPromptUnavailable = errors.New("not an interactive terminal")

var gateLog = logger.PackageLogger("prompt", "❓ CONFIRM")

// Decide applies the confirmation policy: autoConfirm proceeds without
// prompting, a non-interactive terminal declines with ErrPromptUnavailable,
// otherwise the operator's answer decides.
func Decide(ctx context.Context, autoConfirm bool, t Terminal) (bool, error) {
	if autoConfirm {
		return true, nil
	}
	if !t.IsInteractive() {
		return false, ErrPromptUnavailable
	}

	answer, err := t.PromptLine(ctx, ConfirmMessage)
	if err != nil {
		return false, err
	}
	return IsAffirmative(answer), nil
}

// ShouldProceed is Decide with the outcome reported to the operator.
func ShouldProceed(ctx context.Context, cfg *config.DeploymentConfig, t Terminal) bool {
	ok, err := Decide(ctx, cfg.AutoConfirm, t)
	switch {
	case errors.Is(err, ErrPromptUnavailable):
		gateLog.Warn("No interactive terminal detected; skipping deployment. Set autoConfirm: true or pass --yes to deploy unattended.")
	case err != nil:
		gateLog.Warn("Could not read confirmation (%v); treating it as a no", err)
	case cfg.AutoConfirm:
		gateLog.Debug("autoConfirm is set; not prompting")
	}
	return ok
}

// IsAffirmative reports whether answer is "y" or "yes", ignoring case and
// surrounding whitespace.
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
