// Package dialog opens the native file chooser of the platform by running
// the dialog tool that ships with it.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

var ErrCancelled = errors.New("no file selected")
var ErrUnsupportedPlatform = errors.New("file dialog not supported on this platform")

// OpenFile asks the user for a single file. extensions restricts the
// selectable files, given without the leading dot. An empty list allows
// every file.
func OpenFile(ctx context.Context, title string, extensions []string) (string, error) {
	name, args, err := command(runtime.GOOS, title, extensions)
	if err != nil {
		return "", err
	}

	slog.Debug("Open file dialog", slog.String("tool", name))

	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// all tools exit with a non zero code if the dialog was closed
			return "", ErrCancelled
		}

		return "", fmt.Errorf("run %s: %w", name, err)
	}

	return parseOutput(output)
}

func parseOutput(output []byte) (string, error) {
	path := strings.TrimSpace(string(output))
	if path == "" {
		return "", ErrCancelled
	}

	return path, nil
}

// command builds the dialog invocation for the given platform.
func command(goos, title string, extensions []string) (name string, args []string, err error) {
	switch goos {
	case "windows":
		filter := "All files (*.*)|*.*"
		if len(extensions) > 0 {
			patterns := strings.Join(prefixAll("*.", extensions), ";")
			filter = fmt.Sprintf("Models (%s)|%s", patterns, patterns)
		}

		script := "Add-Type -AssemblyName System.Windows.Forms; " +
			"$dlg = New-Object System.Windows.Forms.OpenFileDialog; " +
			"$dlg.Title = " + powershellQuote(title) + "; " +
			"$dlg.Filter = " + powershellQuote(filter) + "; " +
			"$dlg.ShowDialog() | Out-Null; " +
			"Write-Output $dlg.FileName"

		return "powershell", []string{"-NoProfile", "-Command", script}, nil

	case "darwin":
		chooser := "choose file with prompt " + appleScriptQuote(title)
		if len(extensions) > 0 {
			chooser += " of type {" + strings.Join(mapAll(appleScriptQuote, extensions), ", ") + "}"
		}

		return "osascript", []string{"-e", "POSIX path of (" + chooser + ")"}, nil

	case "linux", "freebsd", "openbsd", "netbsd":
		args := []string{"--file-selection", "--title=" + title}
		if len(extensions) > 0 {
			args = append(args, "--file-filter="+strings.Join(prefixAll("*.", extensions), " "))
		}

		return "zenity", args, nil

	default:
		return "", nil, fmt.Errorf("%s: %w", goos, ErrUnsupportedPlatform)
	}
}

func prefixAll(prefix string, values []string) []string {
	return mapAll(func(value string) string { return prefix + value }, values)
}

func mapAll(fn func(string) string, values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, fn(value))
	}

	return result
}

func powershellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func appleScriptQuote(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}
