package config

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// keyPrefix namespaces lazystack keys in git config and in overrides.
const keyPrefix = "ls."

// gitConfigMock replaces the git invocation in tests.
var gitConfigMock func(args []string, repoPath string) (string, error)

func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}
	out, err := cmd.Output()
	if err != nil {
		// Exit status 1 means no key matched.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(out), nil
}

// parseGitConfigOutput reads "ls.key value" lines. Repeated keys collect
// every value in order.
func parseGitConfigOutput(output string) map[string][]string {
	values := make(map[string][]string)
	for line := range strings.Lines(output) {
		line = strings.TrimRight(line, "\r\n")
		name, value, ok := strings.Cut(line, " ")
		if !ok || !strings.HasPrefix(name, keyPrefix) {
			continue
		}
		key := strings.TrimPrefix(name, keyPrefix)
		values[key] = append(values[key], value)
	}
	return values
}

// flatten turns multi-valued keys into the []any shape YAML lists decode to.
func flatten(values map[string][]string) map[string]any {
	out := make(map[string]any, len(values))
	for key, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			out[key] = vs[0]
		default:
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = v
			}
			out[key] = list
		}
	}
	return out
}

func loadGitConfig(global bool, repoPath string) (map[string]any, error) {
	scope := "--local"
	if global {
		scope = "--global"
	}
	out, err := runGitConfig([]string{"config", scope, "--get-regexp", `^ls\.`}, repoPath)
	if err != nil {
		return nil, err
	}
	return flatten(parseGitConfigOutput(out)), nil
}

// parseCLIConfigOverrides parses repeated --config ls.key=value flags.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	values := make(map[string][]string)
	for _, override := range overrides {
		name, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: ls.key=value (note: use = not space)", override)
		}
		if !strings.HasPrefix(name, keyPrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", keyPrefix, name)
		}
		key := strings.TrimPrefix(name, keyPrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		values[key] = append(values[key], value)
	}
	return flatten(values), nil
}
