// Package config loads the lazystack settings from YAML, git config and
// command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/lazystack/internal/theme"
	"gopkg.in/yaml.v3"
)

// Highlight spacing policies. They decide whether the column reserved for
// the highlight symbol is drawn.
const (
	SpacingAlways       = "always"
	SpacingWhenSelected = "when_selected"
	SpacingNever        = "never"
)

// AppConfig holds every lazystack setting.
type AppConfig struct {
	Theme string
	Base  string // ref the stack is measured against

	ScrollPadding         int
	Indent                string // drawn once per depth level
	HighlightSymbol       string
	RepeatHighlightSymbol bool   // draw the symbol on every line of a tall row
	HighlightSpacing      string // always, when_selected or never

	ShowIcons    bool
	ShowBody     bool // render commit bodies, giving multi-line rows
	MaxBodyLines int
	FileTree     bool // group the files of a commit by directory

	AutoRefresh  bool
	GitPager     string
	GitPagerArgs []string
	// GitPagerArgsSet records an explicit git_pager_args, even an empty one.
	GitPagerArgsSet bool `yaml:"-"`
	MaxDiffChars    int

	DebugLog string
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Base:             "origin/master",
		ScrollPadding:    1,
		Indent:           "    ",
		HighlightSymbol:  "> ",
		HighlightSpacing: SpacingWhenSelected,
		ShowIcons:        true,
		MaxBodyLines:     4,
		FileTree:         true,
		AutoRefresh:      true,
		GitPager:         "delta",
		MaxDiffChars:     200000,
	}
}

// Options selects the configuration sources for Load.
type Options struct {
	// ConfigFile replaces the default config.yaml lookup. It must live in
	// the lazystack config directory.
	ConfigFile string
	// RepoPath enables repository-local git config.
	RepoPath string
	// Overrides are "ls.key=value" pairs with the highest precedence.
	Overrides []string
}

// Load merges, in increasing precedence, the built-in defaults, the YAML
// file, global git config, repository git config and the overrides.
func Load(opts Options) (*AppConfig, error) {
	data, err := readConfigFile(opts.ConfigFile)
	if err != nil {
		return DefaultConfig(), err
	}

	if global, err := loadGitConfig(true, ""); err == nil {
		merge(data, global)
	}
	if opts.RepoPath != "" {
		if local, err := loadGitConfig(false, opts.RepoPath); err == nil {
			merge(data, local)
		}
	}

	overrides, err := parseCLIConfigOverrides(opts.Overrides)
	if err != nil {
		return DefaultConfig(), err
	}
	merge(data, overrides)

	return parseConfig(data), nil
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

// Dir returns the lazystack configuration directory.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "lazystack")
}

func readConfigFile(configPath string) (map[string]any, error) {
	dir := filepath.Clean(Dir())
	names := []string{"config.yaml", "config.yml"}

	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, err
		}
		if !isPathWithin(dir, abs) {
			return nil, fmt.Errorf("config path must reside inside %s", dir)
		}
		rel, _ := filepath.Rel(dir, abs)
		names = []string{filepath.ToSlash(rel)}
	}

	root := os.DirFS(dir)
	for _, name := range names {
		raw, err := fs.ReadFile(root, name)
		if errors.Is(err, fs.ErrNotExist) {
			if configPath != "" {
				return nil, fmt.Errorf("config file %s: %w", configPath, err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		data := map[string]any{}
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if data == nil {
			data = map[string]any{}
		}
		return data, nil
	}
	return map[string]any{}, nil
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	if name, ok := data["theme"].(string); ok {
		cfg.Theme = theme.Normalize(name)
	}
	cfg.Base = coerceString(data["base"], cfg.Base)
	cfg.DebugLog = coerceString(data["debug_log"], cfg.DebugLog)
	cfg.GitPager = coerceString(data["git_pager"], cfg.GitPager)

	cfg.ScrollPadding = max(coerceInt(data["scroll_padding"], cfg.ScrollPadding), 0)
	cfg.MaxBodyLines = max(coerceInt(data["max_body_lines"], cfg.MaxBodyLines), 0)
	cfg.MaxDiffChars = max(coerceInt(data["max_diff_chars"], cfg.MaxDiffChars), 0)

	// Indentation and symbols are taken verbatim: whitespace is the point.
	if indent, ok := data["indent"]; ok {
		switch v := indent.(type) {
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				cfg.Indent = strings.Repeat(" ", max(n, 0))
			} else {
				cfg.Indent = v
			}
		case int:
			cfg.Indent = strings.Repeat(" ", max(v, 0))
		}
	}
	if symbol, ok := data["highlight_symbol"].(string); ok {
		cfg.HighlightSymbol = symbol
	}
	cfg.RepeatHighlightSymbol = coerceBool(data["repeat_highlight_symbol"], cfg.RepeatHighlightSymbol)

	if spacing, ok := data["highlight_spacing"].(string); ok {
		switch s := strings.ToLower(strings.TrimSpace(spacing)); s {
		case SpacingAlways, SpacingWhenSelected, SpacingNever:
			cfg.HighlightSpacing = s
		}
	}

	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.ShowBody = coerceBool(data["show_body"], cfg.ShowBody)
	cfg.FileTree = coerceBool(data["file_tree"], cfg.FileTree)
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)

	if _, ok := data["git_pager_args"]; ok {
		cfg.GitPagerArgs = normalizeArgsList(data["git_pager_args"])
		cfg.GitPagerArgsSet = true
	}

	return cfg
}

// PagerArgs returns the arguments for the configured pager. Unless set
// explicitly, delta gets the syntax theme matching the UI theme.
func (c *AppConfig) PagerArgs(t *theme.Theme) []string {
	if c.GitPagerArgsSet {
		return c.GitPagerArgs
	}
	if filepath.Base(c.GitPager) == "delta" && t != nil && t.SyntaxTheme != "" {
		return []string{"--syntax-theme", t.SyntaxTheme}
	}
	return nil
}

func coerceString(value any, defaultVal string) string {
	switch v := value.(type) {
	case string:
		if text := strings.TrimSpace(v); text != "" {
			return text
		}
	case []any:
		// Repeated git config or override keys: the last one wins.
		if len(v) > 0 {
			return coerceString(v[len(v)-1], defaultVal)
		}
	}
	return defaultVal
}

func normalizeArgsList(value any) []string {
	switch v := value.(type) {
	case string:
		return strings.Fields(v)
	case []any:
		args := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			if text := strings.TrimSpace(fmt.Sprint(item)); text != "" {
				args = append(args, text)
			}
		}
		return args
	}
	return []string{}
}

func coerceBool(value any, defaultVal bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	switch v := value.(type) {
	case int:
		return v
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultVal
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
