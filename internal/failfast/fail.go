package failfast

import (
	"errors"
	"os"

	"distship/internal/config"
	"distship/internal/hook"
	"distship/internal/logger"
	"distship/internal/remote"
	"distship/internal/ship"
)

type ErrorLevel int

const (
	Ignore ErrorLevel = iota // log at debug level and carry on
	Warn                     // log a Warning and carry on
	Error                    // log an Error and exit with Code(err)
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConfig    = 2
	ExitRemote    = 3
	ExitNoBackups = 4
)

var (
	failfastLogger = logger.PackageLogger("FailFast::", "🚨 FailFast::")

	// exit is swapped out in tests.
	exit = os.Exit
)

// Code maps an error from the deploy or rollback pipeline to an exit code.
func Code(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *config.ConfigError
	var rce *ship.RemoteCommandError
	switch {
	case errors.Is(err, ship.ErrNoBackups):
		return ExitNoBackups
	case errors.As(err, &rce):
		return ExitRemote
	case errors.As(err, &cfgErr),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, ship.ErrSourceMissing),
		errors.Is(err, ship.ErrSourceEmpty),
		errors.Is(err, hook.ErrUnknownMode):
		return ExitConfig
	}
	return ExitFailure
}

// Exit reports err and terminates the process with Code(err). It returns
// without exiting when err is nil.
func Exit(err error) {
	Failfast(err, Error, "distship failed")
}

// Failfast handles err according to level. Only Error exits.
func Failfast(err error, level ErrorLevel, message string) {
	if err == nil {
		return
	}

	switch level {
	case Ignore:
		failfastLogger.Debug("%s: %v", message, err)
	case Warn:
		failfastLogger.Warn("%s: %v", message, err)
	default:
		failfastLogger.Error("%s: %v", message, err)
		describe(err)
		exit(Code(err))
	}
}

// describe logs what the operator needs to retry or recover from a failed
// remote command.
func describe(err error) {
	var rce *ship.RemoteCommandError
	if !errors.As(err, &rce) {
		return
	}
	failfastLogger.Error("command: %s", rce.Command)
	if code := remote.ExitCodeOf(err); code >= 0 {
		failfastLogger.Error("exit code: %d", code)
	}
	if rce.BackupPath != "" {
		failfastLogger.Warn("previous release saved at %s", rce.BackupPath)
	}
}
