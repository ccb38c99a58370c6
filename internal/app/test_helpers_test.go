package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystack/internal/config"
	"github.com/chmouel/lazystack/internal/git"
	"github.com/chmouel/lazystack/internal/models"
	"github.com/chmouel/lazystack/internal/tree"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	mu      sync.Mutex
	commits []models.Commit
	files   map[string][]models.CommitFile
	calls   map[string]int
	err     error
}

func newFakeGit(commits ...models.Commit) *fakeGit {
	return &fakeGit{
		commits: commits,
		files:   make(map[string][]models.CommitFile),
		calls:   make(map[string]int),
	}
}

func (f *fakeGit) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGit) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeGit) GitDir(context.Context) (string, error) {
	return "", errors.New("no git dir")
}

func (f *fakeGit) CommonDir(context.Context) (string, error) {
	return "", errors.New("no git dir")
}

func (f *fakeGit) StackCommits(context.Context, string) ([]models.Commit, error) {
	f.record("StackCommits")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Commit(nil), f.commits...), nil
}

func (f *fakeGit) CommitFiles(_ context.Context, sha string) ([]models.CommitFile, error) {
	f.record("CommitFiles")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.commits {
		if c.SHA == sha && c.IsMerge() {
			return nil, git.ErrMergeCommit
		}
	}
	return f.files[sha], nil
}

func (f *fakeGit) CommitDiff(_ context.Context, sha string) (string, error) {
	f.record("CommitDiff")
	return "commit diff " + sha, nil
}

func (f *fakeGit) FileDiff(_ context.Context, sha string, file models.CommitFile) (string, error) {
	f.record("FileDiff")
	return fmt.Sprintf("file diff %s %s", sha, file.Filename), nil
}

func commit(n int, subject string) models.Commit {
	return models.Commit{
		SHA:        fmt.Sprintf("%02d%038d", n, n),
		Parents:    []string{fmt.Sprintf("p%039d", n)},
		Author:     "Test User",
		AuthorTime: time.Unix(1700000000, 0),
		Subject:    subject,
	}
}

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.AutoRefresh = false
	cfg.ShowIcons = false
	cfg.Theme = "dracula"
	return cfg
}

// newLoadedModel returns a sized model with the stack of git loaded.
func newLoadedModel(t *testing.T, cfg *config.AppConfig, g *fakeGit) *Model {
	t.Helper()
	m := NewModel(cfg, g)
	t.Cleanup(m.quit)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	drain(t, m, m.loadStack())
	require.True(t, m.loaded)
	return m
}

// drain runs cmd and feeds the resulting messages back into m until no
// command is left.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "too many commands")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		_, followUp := m.Update(msg)
		queue = append(queue, followUp)
	}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		drain(t, m, cmd)
	}
}

func selection(t *testing.T, m *Model) []int {
	t.Helper()
	addr, ok := m.state.Selected()
	require.True(t, ok, "expected a selection")
	return addr.Offsets()
}

func selectAddress(m *Model, offsets ...int) {
	addr, _ := tree.AddressFrom(offsets)
	m.state.Select(addr)
}
