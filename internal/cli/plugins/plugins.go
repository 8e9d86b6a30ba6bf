// Package plugins runs external deckport-<command> binaries.
//
// An unknown subcommand is looked up as a plugin binary and executed with
// the remaining arguments, in the manner of git and kubectl plugins.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "deckport-"

// EnvPluginDir overrides the per-user plugin directory.
const EnvPluginDir = "DECKPORT_PLUGIN_DIR"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Plugin is a discovered plugin binary.
type Plugin struct {
	Command string
	Path    string
}

// Dir returns the per-user plugin directory: $DECKPORT_PLUGIN_DIR, or
// ~/.deckport/plugins. Empty when neither can be determined.
func Dir() string {
	if dir := os.Getenv(EnvPluginDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".deckport", "plugins")
}

// searchDirs lists the directories checked before PATH, in order.
func searchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if dir := Dir(); dir != "" {
		dirs = append(dirs, dir)
	}
	return dirs
}

// FindPlugin returns the path of the deckport-<command> binary. It checks
// the deckport binary's directory, then Dir, then PATH.
func FindPlugin(command string) (string, error) {
	if command == "" || strings.ContainsAny(command, `/\`) {
		return "", ErrPluginNotFound
	}
	name := Prefix + command

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	return "", ErrPluginNotFound
}

// List returns every plugin reachable from the search directories and PATH,
// sorted by command. When a command appears twice the first location wins,
// matching FindPlugin.
func List() []Plugin {
	dirs := searchDirs()
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	seen := make(map[string]bool)
	var found []Plugin
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			command, ok := strings.CutPrefix(e.Name(), Prefix)
			if !ok || command == "" || seen[command] {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if !isExecutable(path) {
				continue
			}
			seen[command] = true
			found = append(found, Plugin{Command: command, Path: path})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Command < found[j].Command })
	return found
}

// Execute runs the plugin with args, wired to the process's standard
// streams, and returns its exit code.
func Execute(ctx context.Context, pluginPath string, args []string) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 2
	}
	return 0
}

// FormatNotFoundError describes an unknown command and where a plugin for
// it would be installed.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"deckport\"\n", command)
	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as deckport\n", Prefix, command)
	if dir := Dir(); dir != "" {
		fmt.Fprintf(&sb, "  - %s\n", filepath.Join(dir, Prefix+command))
	}
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'deckport --help' for usage.")

	return sb.String()
}

// isExecutable reports whether path is a regular file with an execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
