package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	EmojiSuccess  = "✅"
	EmojiWarning  = "⚠️"
	EmojiInput    = "🖊️"
	EmojiQuestion = "❓"
	EmojiNetwork  = "🌐"
	EmojiFolder   = "📁"
)

// ErrWizardAborted is returned when input ends before a required answer.
var ErrWizardAborted = errors.New("configuration wizard aborted: input closed")

// InteractiveConfigPrompt walks the operator through the fields Normalize
// needs and returns the collected Options.
func InteractiveConfigPrompt(reader *bufio.Reader, out io.Writer) (Options, error) {
	var opts Options
	var err error

	fmt.Fprintln(out, "\n✨ distship configuration wizard ✨")
	fmt.Fprintln(out, "Press Enter to accept default values where available.")

	fmt.Fprintln(out, "\n🖥️  Server Connection")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "%s Server hostname or IP address:\n", EmojiNetwork)
	if opts.RemoteHost, err = readRequiredInput(reader, out, "server host"); err != nil {
		return opts, err
	}

	fmt.Fprintf(out, "\n%s SSH username:\n", EmojiNetwork)
	if opts.RemoteUser, err = readInputWithDefault(reader, out, DefaultRemoteUser); err != nil {
		return opts, err
	}

	fmt.Fprintf(out, "\n%s SSH port:\n", EmojiNetwork)
	for {
		portStr, err := readInputWithDefault(reader, out, strconv.Itoa(DefaultRemotePort))
		if err != nil {
			return opts, err
		}
		port, convErr := strconv.Atoi(portStr)
		if convErr == nil && port >= 1 && port <= 65535 {
			opts.RemotePort = port
			break
		}
		fmt.Fprintf(out, "%s Port must be a number between 1 and 65535\n", EmojiWarning)
	}

	fmt.Fprintf(out, "\n%s Path to SSH private key (leave empty to use your ssh-agent):\n", EmojiNetwork)
	fmt.Fprintln(out, "Example: ~/.ssh/id_ed25519")
	if opts.PrivateKeyPath, err = readOptionalInput(reader, out); err != nil {
		return opts, err
	}

	fmt.Fprintln(out, "\n📦 Deployment Paths")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "%s Absolute directory on the server that serves the site:\n", EmojiFolder)
	fmt.Fprintln(out, "Example: /var/www/app")
	for {
		if opts.RemoteTargetDir, err = readRequiredInput(reader, out, "target directory"); err != nil {
			return opts, err
		}
		if strings.HasPrefix(opts.RemoteTargetDir, "/") {
			break
		}
		fmt.Fprintf(out, "%s The target directory must start with /\n", EmojiWarning)
	}

	fmt.Fprintf(out, "\n%s Directory on the server that keeps backups:\n", EmojiFolder)
	if opts.BackupDir, err = readInputWithDefault(reader, out, opts.RemoteTargetDir+BackupDirSuffix); err != nil {
		return opts, err
	}

	fmt.Fprintf(out, "\n%s Local build output directory:\n", EmojiFolder)
	if opts.LocalSourceDir, err = readInputWithDefault(reader, out, DefaultLocalSourceDir); err != nil {
		return opts, err
	}

	fmt.Fprintf(out, "\n%s Transport (copy uses scp, sync uses rsync):\n", EmojiInput)
	for {
		name, err := readInputWithDefault(reader, out, string(DefaultTransport))
		if err != nil {
			return opts, err
		}
		if _, parseErr := ParseTransport(name); parseErr == nil {
			opts.Transport = strings.ToLower(name)
			break
		}
		fmt.Fprintf(out, "%s Please answer with 'copy' or 'sync'\n", EmojiWarning)
	}

	fmt.Fprintf(out, "\n%s Production build command (leave empty if you build separately):\n", EmojiInput)
	fmt.Fprintln(out, "Example: npm run build")
	if opts.Build.Command, err = readOptionalInput(reader, out); err != nil {
		return opts, err
	}

	if opts.AutoConfirm, err = promptYesNo(reader, out, "Deploy without asking for confirmation?", false); err != nil {
		return opts, err
	}

	return opts, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrWizardAborted
		}
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func readRequiredInput(reader *bufio.Reader, out io.Writer, fieldName string) (string, error) {
	for {
		fmt.Fprint(out, "> ")
		input, err := readLine(reader)
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}
		fmt.Fprintf(out, "%s %s is required. Please enter a value.\n", EmojiWarning, fieldName)
	}
}

func readOptionalInput(reader *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "> ")
	input, err := readLine(reader)
	if errors.Is(err, ErrWizardAborted) {
		return "", nil
	}
	return input, err
}

func readInputWithDefault(reader *bufio.Reader, out io.Writer, defaultValue string) (string, error) {
	fmt.Fprintf(out, "(default: %s) > ", defaultValue)
	input, err := readLine(reader)
	if errors.Is(err, ErrWizardAborted) {
		return defaultValue, nil
	}
	if err != nil {
		return "", err
	}
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string, defaultYes bool) (bool, error) {
	options := "(y/N)"
	if defaultYes {
		options = "(Y/n)"
	}

	for {
		fmt.Fprintf(out, "\n%s %s %s: ", EmojiQuestion, question, options)
		answer, err := readLine(reader)
		if errors.Is(err, ErrWizardAborted) {
			return defaultYes, nil
		}
		if err != nil {
			return false, err
		}
		answer = strings.ToLower(answer)

		if answer == "" {
			return defaultYes, nil
		}
		if answer == "y" || answer == "yes" {
			return true, nil
		}
		if answer == "n" || answer == "no" {
			return false, nil
		}
		fmt.Fprintf(out, "%s Please answer with 'y' or 'n'\n", EmojiWarning)
	}
}
