package app

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystack/internal/app/services"
	"github.com/chmouel/lazystack/internal/models"
	"github.com/chmouel/lazystack/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFiles() []models.CommitFile {
	return []models.CommitFile{
		{Filename: "internal/app/render.go", ChangeType: models.ChangeAdded},
		{Filename: "README.md", ChangeType: models.ChangeModified},
		{Filename: "internal/app/model.go", ChangeType: models.ChangeModified},
		{Filename: "docs/guide/intro.md", ChangeType: models.ChangeRenamed, OldPath: "docs/intro.md"},
	}
}

func threeCommits() *fakeGit {
	g := newFakeGit(commit(1, "First"), commit(2, "Second"), commit(3, "Third"))
	g.files[g.commits[0].SHA] = sampleFiles()
	return g
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(nil, newFakeGit())
	t.Cleanup(m.quit)

	require.NotNil(t, m.config)
	assert.Equal(t, treePane, m.focus)
	assert.False(t, m.loaded)
	assert.Equal(t, "Loading...", m.View())
	_, ok := m.state.Selected()
	assert.False(t, ok)
}

func TestStackLoadedSelectsFirstCommit(t *testing.T) {
	g := threeCommits()
	m := newLoadedModel(t, testConfig(), g)

	assert.Equal(t, []int{0}, selection(t, m))
	assert.Equal(t, 3, tree.Count(m.root))
	assert.Equal(t, g.commits[0].SHA, m.previewKey)
	assert.Equal(t, 1, g.count("CommitDiff"))
	assert.Equal(t, "commit diff "+g.commits[0].SHA, m.diffCache[m.previewKey])
}

func TestNavigationKeys(t *testing.T) {
	m := newLoadedModel(t, testConfig(), threeCommits())

	press(t, m, "j", "down", "j")
	assert.Equal(t, []int{2}, selection(t, m), "moving past the end keeps the last row")

	press(t, m, "k")
	assert.Equal(t, []int{1}, selection(t, m))

	press(t, m, "g")
	assert.Equal(t, []int{0}, selection(t, m))

	press(t, m, "G")
	assert.Equal(t, []int{2}, selection(t, m))

	press(t, m, "left")
	assert.Equal(t, []int{2}, selection(t, m), "root-level rows have no parent")
}

func TestToggleLoadsFilesOnce(t *testing.T) {
	g := threeCommits()
	m := newLoadedModel(t, testConfig(), g)

	press(t, m, "space")
	assert.Equal(t, 1, g.count("CommitFiles"))
	assert.Equal(t, 9, tree.Count(m.root))

	var names []string
	for n := range tree.All(m.root) {
		names = append(names, n.name)
	}
	assert.Equal(t, []string{
		"First",
		"docs/guide", "intro.md ← docs/intro.md",
		"internal/app", "model.go", "render.go",
		"README.md",
		"Second", "Third",
	}, names)

	press(t, m, "space")
	assert.Equal(t, 3, tree.Count(m.root))
	press(t, m, "enter")
	assert.Equal(t, 9, tree.Count(m.root))
	assert.Equal(t, 1, g.count("CommitFiles"), "files are cached per commit")
}

func TestFlatFileList(t *testing.T) {
	cfg := testConfig()
	cfg.FileTree = false
	m := newLoadedModel(t, cfg, threeCommits())

	press(t, m, "space")
	first := m.root.children[0]
	require.Equal(t, 4, first.NumChildren())
	assert.Equal(t, "internal/app/render.go", first.Child(0).name)
	assert.Equal(t, "docs/intro.md → docs/guide/intro.md", first.Child(3).name)
}

func TestToggleOnFileCollapsesCommit(t *testing.T) {
	g := threeCommits()
	m := newLoadedModel(t, testConfig(), g)

	press(t, m, "space", "j", "j")
	assert.Equal(t, []int{0, 0, 0}, selection(t, m))
	assert.Equal(t, 1, g.count("FileDiff"))
	assert.Equal(t, g.commits[0].SHA+":docs/guide/intro.md", m.previewKey)

	press(t, m, "space")
	assert.Equal(t, []int{0}, selection(t, m))
	assert.Equal(t, 3, tree.Count(m.root))
	assert.Equal(t, g.commits[0].SHA, m.previewKey)
	assert.Equal(t, 1, g.count("CommitDiff"), "the commit diff is cached")
}

func TestToggleDirectory(t *testing.T) {
	g := threeCommits()
	m := newLoadedModel(t, testConfig(), g)

	press(t, m, "space")
	selectAddress(m, 0, 1)
	press(t, m, "space")
	assert.Equal(t, 7, tree.Count(m.root))
	assert.True(t, m.layout.collapsed[g.commits[0].SHA+":internal/app"])

	// The folded directory survives collapsing the commit.
	press(t, m, "left", "space", "space")
	assert.Equal(t, []int{0}, selection(t, m))
	assert.Equal(t, 7, tree.Count(m.root))
}

func TestMergeCommitCannotBeExpanded(t *testing.T) {
	merge := commit(1, "Merge branch")
	merge.Parents = append(merge.Parents, "other")
	g := newFakeGit(merge)
	m := newLoadedModel(t, testConfig(), g)

	press(t, m, "space")
	assert.Equal(t, 0, g.count("CommitFiles"))
	assert.Contains(t, m.status, "merge commits cannot be expanded")
	assert.Equal(t, severityWarn, m.severity)
	assert.Equal(t, 1, tree.Count(m.root))
}

func TestReloadRepairsSelection(t *testing.T) {
	g := threeCommits()
	m := newLoadedModel(t, testConfig(), g)

	press(t, m, "space", "G")
	assert.Equal(t, []int{2}, selection(t, m))

	g.commits = g.commits[:1]
	press(t, m, "r")
	assert.Equal(t, 2, g.count("StackCommits"))
	assert.Equal(t, 7, tree.Count(m.root), "expanded commits stay expanded")

	m.View()
	assert.Equal(t, []int{0}, selection(t, m))
	assert.Equal(t, "Stack reloaded", m.status)
}

func TestReloadToEmptyStack(t *testing.T) {
	g := threeCommits()
	m := newLoadedModel(t, testConfig(), g)

	g.commits = nil
	press(t, m, "r")
	view := m.View()
	assert.Contains(t, view, "No commits between origin/master and HEAD")
	_, ok := m.state.Selected()
	assert.False(t, ok)
}

func TestLoadError(t *testing.T) {
	g := newFakeGit()
	g.err = errors.New("unknown revision origin/master")
	m := NewModel(testConfig(), g)
	t.Cleanup(m.quit)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	drain(t, m, m.loadStack())

	assert.Equal(t, severityError, m.severity)
	assert.Contains(t, m.View(), "unknown revision origin/master")
}

func TestPreviewFocus(t *testing.T) {
	m := newLoadedModel(t, testConfig(), threeCommits())

	press(t, m, "tab")
	assert.Equal(t, previewPane, m.focus)
	press(t, m, "j")
	assert.Equal(t, []int{0}, selection(t, m), "keys scroll the preview while it has focus")

	press(t, m, "esc")
	assert.Equal(t, treePane, m.focus)
	press(t, m, "tab", "tab")
	assert.Equal(t, treePane, m.focus)
}

func TestHelpAndBodiesToggle(t *testing.T) {
	m := newLoadedModel(t, testConfig(), threeCommits())

	press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	press(t, m, "?")
	assert.False(t, m.help.ShowAll)

	press(t, m, "b")
	assert.True(t, m.showBody)
}

func TestQuit(t *testing.T) {
	m := newLoadedModel(t, testConfig(), threeCommits())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
	assert.Error(t, m.ctx.Err())
}

func TestNotificationsReachFooter(t *testing.T) {
	n := NewNotifications()
	m := NewModel(testConfig(), threeCommits(), WithNotifications(n))
	t.Cleanup(m.quit)

	n.Notify("Pager delta failed, showing plain diff", severityWarn)
	msg := m.waitForNotification()()
	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "the model keeps listening")
	assert.Equal(t, "Pager delta failed, showing plain diff", m.status)
	assert.Equal(t, severityWarn, m.severity)
}

func TestNotifyDropsWhenFull(t *testing.T) {
	n := NewNotifications()
	for range cap(n) + 3 {
		n.Notify("x", severityInfo)
	}
	assert.Len(t, n, cap(n))
}

func TestGitDirChangedReloadsWithDebounce(t *testing.T) {
	g := threeCommits()
	m := newLoadedModel(t, testConfig(), g)
	m.watch = services.NewRefWatcher(g, nil)

	_, cmd := m.Update(gitDirChangedMsg{})
	drain(t, m, cmd)
	assert.Equal(t, 2, g.count("StackCommits"))

	_, cmd = m.Update(gitDirChangedMsg{})
	drain(t, m, cmd)
	assert.Equal(t, 2, g.count("StackCommits"), "events inside the debounce window are dropped")
}
