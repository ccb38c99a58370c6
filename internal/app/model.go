// Package app is the terminal UI of lazystack: the commit stack drawn as a
// collapsible tree with a diff preview next to it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystack/internal/app/services"
	"github.com/chmouel/lazystack/internal/config"
	"github.com/chmouel/lazystack/internal/git"
	log "github.com/chmouel/lazystack/internal/log"
	"github.com/chmouel/lazystack/internal/models"
	"github.com/chmouel/lazystack/internal/theme"
	"github.com/chmouel/lazystack/internal/tree"
)

// GitService is the part of git.Service the UI needs.
type GitService interface {
	services.GitDirResolver
	StackCommits(ctx context.Context, base string) ([]models.Commit, error)
	CommitFiles(ctx context.Context, sha string) ([]models.CommitFile, error)
	CommitDiff(ctx context.Context, sha string) (string, error)
	FileDiff(ctx context.Context, sha string, file models.CommitFile) (string, error)
}

// Message types for the Bubble Tea program.
type (
	errMsg         struct{ err error }
	stackLoadedMsg struct {
		commits []models.Commit
		err     error
	}
	filesLoadedMsg struct {
		sha   string
		files []models.CommitFile
		err   error
	}
	previewLoadedMsg struct {
		key     string
		content string
		err     error
	}
	gitDirChangedMsg struct{}
	notifyMsg        struct {
		message  string
		severity string
	}
)

type pane int

const (
	treePane pane = iota
	previewPane
)

const (
	severityInfo  = "info"
	severityWarn  = "warn"
	severityError = "error"
)

// Notifications carries messages from background services to the footer.
type Notifications chan notifyMsg

// NewNotifications returns a buffered notification channel.
func NewNotifications() Notifications {
	return make(Notifications, 8)
}

// Notify queues a message. It drops the message when the queue is full.
func (n Notifications) Notify(message, severity string) {
	select {
	case n <- notifyMsg{message: message, severity: severity}:
	default:
	}
}

// Model is the Bubble Tea model of the stack view.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	config        *config.AppConfig
	theme         *theme.Theme
	git           GitService
	watch         *services.RefWatcher
	notifications Notifications

	commits []models.Commit
	layout  *stackLayout
	root    *stackNode
	state   *tree.State
	loaded  bool
	loading map[string]bool // commits whose files are being fetched

	preview    viewport.Model
	previewKey string
	diffCache  map[string]string
	help       help.Model
	keys       keyMap

	focus    pane
	showBody bool
	status   string
	severity string

	width, height int
	quitting      bool
}

// Option configures a Model.
type Option func(*Model)

// WithNotifications makes the model display messages sent on n.
func WithNotifications(n Notifications) Option {
	return func(m *Model) { m.notifications = n }
}

// NewModel creates the stack view for the repository behind svc.
func NewModel(cfg *config.AppConfig, svc GitService, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())

	thm := theme.Get(cfg.Theme)
	m := &Model{
		ctx:       ctx,
		cancel:    cancel,
		config:    cfg,
		theme:     thm,
		git:       svc,
		layout:    newStackLayout(cfg.FileTree),
		root:      &stackNode{kind: kindRoot},
		state:     tree.NewState(),
		loading:   make(map[string]bool),
		preview:   viewport.New(0, 0),
		diffCache: make(map[string]string),
		help:      newHelp(thm),
		keys:      defaultKeyMap(),
		showBody:  cfg.ShowBody,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the stack and starts the background listeners.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadStack(),
		m.startWatcher(),
		m.waitForNotification(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stackLoadedMsg:
		return m, m.handleStackLoaded(msg)

	case filesLoadedMsg:
		return m, m.handleFilesLoaded(msg)

	case previewLoadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("diff: %v", msg.err), severityError)
			return m, nil
		}
		m.diffCache[msg.key] = msg.content
		if msg.key == m.previewKey {
			m.preview.SetContent(msg.content)
			m.preview.GotoTop()
		}
		return m, nil

	case gitDirChangedMsg:
		if m.watch == nil {
			return m, nil
		}
		m.watch.ResetWaiting()
		cmds := []tea.Cmd{m.waitForWatchEvent()}
		if m.watch.ShouldReload(time.Now()) {
			log.Printf("app: refs changed, reloading")
			cmds = append(cmds, m.loadStack())
		}
		return m, tea.Batch(cmds...)

	case notifyMsg:
		m.setStatus(msg.message, msg.severity)
		return m, m.waitForNotification()

	case errMsg:
		m.setStatus(msg.err.Error(), severityError)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quit()
		return m, tea.Quit
	}

	if m.focus == previewPane {
		switch {
		case key.Matches(msg, m.keys.Focus), msg.String() == "esc":
			m.focus = treePane
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		tree.SelectUp(m.root, m.state)
	case key.Matches(msg, m.keys.Down):
		tree.SelectDown(m.root, m.state)
	case key.Matches(msg, m.keys.Parent):
		tree.SelectParent(m.root, m.state)
	case key.Matches(msg, m.keys.First):
		tree.SelectFirst(m.root, m.state)
	case key.Matches(msg, m.keys.Last):
		tree.SelectLast(m.root, m.state)
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggleSelected()
	case key.Matches(msg, m.keys.Reload):
		m.setStatus("Reloading…", severityInfo)
		return m, m.loadStack()
	case key.Matches(msg, m.keys.Bodies):
		m.showBody = !m.showBody
		return m, nil
	case key.Matches(msg, m.keys.Focus):
		m.focus = previewPane
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	default:
		return m, nil
	}
	return m, m.updatePreview()
}

func (m *Model) quit() {
	m.quitting = true
	m.Close()
}

// Close stops the watcher and cancels pending git commands. It is safe to
// call more than once.
func (m *Model) Close() {
	if m.watch != nil {
		m.watch.Stop()
	}
	m.cancel()
}

func (m *Model) setStatus(message, severity string) {
	m.status = message
	m.severity = severity
	if severity != severityInfo {
		log.Printf("app: %s: %s", severity, message)
	}
}

// selectedNode resolves the stored selection against the current tree.
func (m *Model) selectedNode() (tree.Address, *stackNode, bool) {
	current, ok := m.state.Selected()
	if !ok {
		return tree.Address{}, nil, false
	}
	return tree.NearestTo(m.root, current)
}

// toggleSelected expands or collapses the selected commit or directory. On
// a file row it collapses the commit holding the file and selects it.
func (m *Model) toggleSelected() tea.Cmd {
	addr, node, ok := m.selectedNode()
	if !ok {
		return nil
	}
	if node.kind == kindFile {
		addr.Floor(0)
		node, _ = tree.DescendantAt(m.root, addr)
		m.state.Select(addr)
	}

	switch node.kind {
	case kindCommit:
		if node.commit.IsMerge() {
			m.setStatus(fmt.Sprintf("%s: %v", node.commit.ShortSHA(), git.ErrMergeCommit), severityWarn)
			return nil
		}
		if !m.layout.toggle(node) {
			return m.loadFiles(node.commit.SHA)
		}
	case kindDir:
		m.layout.toggle(node)
	}
	return m.updatePreview()
}

func (m *Model) handleStackLoaded(msg stackLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.setStatus(msg.err.Error(), severityError)
		return nil
	}

	firstLoad := !m.loaded
	m.loaded = true
	m.commits = msg.commits
	m.root = m.layout.build(m.commits)
	log.Printf("app: %d commits in stack", len(m.commits))

	if firstLoad && len(m.commits) > 0 {
		m.state.Select(tree.NewAddress(0))
	}
	// A stale selection is repaired by the next render.
	if len(m.commits) == 0 {
		m.setStatus(fmt.Sprintf("No commits between %s and HEAD", m.config.Base), severityInfo)
	} else if !firstLoad && m.severity != severityError {
		m.setStatus("Stack reloaded", severityInfo)
	}
	return m.updatePreview()
}

func (m *Model) handleFilesLoaded(msg filesLoadedMsg) tea.Cmd {
	delete(m.loading, msg.sha)
	if msg.err != nil {
		if errors.Is(msg.err, git.ErrMergeCommit) {
			m.setStatus(git.ErrMergeCommit.Error(), severityWarn)
		} else {
			m.setStatus(msg.err.Error(), severityError)
		}
		return nil
	}

	m.layout.files[msg.sha] = msg.files
	m.layout.expanded[msg.sha] = true
	m.root = m.layout.build(m.commits)
	if len(msg.files) == 0 {
		m.setStatus("No files in this commit.", severityInfo)
	}
	return m.updatePreview()
}

func (m *Model) loadStack() tea.Cmd {
	base := m.config.Base
	return func() tea.Msg {
		commits, err := m.git.StackCommits(m.ctx, base)
		return stackLoadedMsg{commits: commits, err: err}
	}
}

func (m *Model) loadFiles(sha string) tea.Cmd {
	if m.loading[sha] {
		return nil
	}
	m.loading[sha] = true
	return func() tea.Msg {
		files, err := m.git.CommitFiles(m.ctx, sha)
		return filesLoadedMsg{sha: sha, files: files, err: err}
	}
}

// updatePreview loads the diff of the selected row unless it is already
// shown.
func (m *Model) updatePreview() tea.Cmd {
	_, node, ok := m.selectedNode()
	if !ok {
		m.previewKey = ""
		m.preview.SetContent("")
		return nil
	}

	previewKey := node.key()
	if node.kind == kindDir {
		previewKey = node.commit.SHA
	}
	if previewKey == m.previewKey {
		return nil
	}
	m.previewKey = previewKey
	if content, ok := m.diffCache[previewKey]; ok {
		m.preview.SetContent(content)
		m.preview.GotoTop()
		return nil
	}

	sha := node.commit.SHA
	file := node.file
	return func() tea.Msg {
		var content string
		var err error
		if file != nil {
			content, err = m.git.FileDiff(m.ctx, sha, *file)
		} else {
			content, err = m.git.CommitDiff(m.ctx, sha)
		}
		return previewLoadedMsg{key: previewKey, content: content, err: err}
	}
}

func (m *Model) startWatcher() tea.Cmd {
	if !m.config.AutoRefresh {
		return nil
	}
	if m.watch == nil {
		m.watch = services.NewRefWatcher(m.git, log.Printf)
	}
	started, err := m.watch.Start(m.ctx)
	if err != nil {
		return func() tea.Msg { return errMsg{err: fmt.Errorf("watch: %w", err)} }
	}
	if !started {
		return nil
	}
	return m.waitForWatchEvent()
}

func (m *Model) waitForWatchEvent() tea.Cmd {
	if m.watch == nil {
		return nil
	}
	events := m.watch.NextEvent()
	if events == nil {
		return nil
	}
	done := m.watch.Done()
	return func() tea.Msg {
		select {
		case <-events:
			return gitDirChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) waitForNotification() tea.Cmd {
	if m.notifications == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case msg := <-m.notifications:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
