package app

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/chmouel/lazystack/internal/config"
	"github.com/chmouel/lazystack/internal/models"
	"github.com/chmouel/lazystack/internal/theme"
	"github.com/chmouel/lazystack/internal/tree"
	"github.com/muesli/reflow/wrap"
)

const (
	minTreeWidth = 24
	// commitPrefixWidth is the width of "+ " and a short sha with its
	// trailing space; bodies are aligned under the subject.
	commitPrefixWidth = 2 + models.ShortSHALength + 1
	minBodyWidth      = 10
)

type layoutDims struct {
	width         int
	height        int
	headerHeight  int
	footerHeight  int
	bodyHeight    int
	treeWidth     int
	previewWidth  int
	paneInnerRows int // rows inside a pane border, title excluded
}

func newHelp(thm *theme.Theme) help.Model {
	h := help.New()
	keyStyle := lipgloss.NewStyle().Foreground(thm.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(thm.Muted)
	h.Styles.ShortKey = keyStyle
	h.Styles.ShortDesc = descStyle
	h.Styles.ShortSeparator = descStyle
	h.Styles.FullKey = keyStyle
	h.Styles.FullDesc = descStyle
	h.Styles.FullSeparator = descStyle
	h.Styles.Ellipsis = descStyle
	return h
}

func (m *Model) setWindowSize(width, height int) {
	m.width = width
	m.height = height
	m.applyLayout(m.computeLayout())
}

func (m *Model) computeLayout() layoutDims {
	l := layoutDims{width: m.width, height: m.height, headerHeight: 1}
	m.help.Width = max(m.width-2, 0)
	l.footerHeight = lipgloss.Height(m.help.View(m.keys))
	l.bodyHeight = max(m.height-l.headerHeight-l.footerHeight, 3)

	// One third for the tree, the rest for the preview.
	l.treeWidth = min(max(m.width/3, minTreeWidth), m.width)
	l.previewWidth = max(m.width-l.treeWidth, 0)
	l.paneInnerRows = max(l.bodyHeight-3, 0)
	return l
}

func (m *Model) applyLayout(l layoutDims) {
	m.preview.Width = max(l.previewWidth-4, 0)
	m.preview.Height = l.paneInnerRows
}

// View renders the UI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	layout := m.computeLayout()
	m.applyLayout(layout)

	header := m.renderHeader(layout)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTreePane(layout), m.renderPreviewPane(layout))
	footer := m.renderFooter(layout)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderHeader(l layoutDims) string {
	title := lipgloss.NewStyle().
		Background(m.theme.Accent).
		Foreground(m.theme.AccentFg).
		Bold(true).
		Padding(0, 1).
		Render("lazystack")
	info := fmt.Sprintf(" %s..HEAD", m.config.Base)
	if m.loaded {
		info += fmt.Sprintf(" · %d commits", len(m.commits))
	}
	infoStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)
	return ansi.Truncate(title+infoStyle.Render(info), l.width, "")
}

func (m *Model) paneStyle(focused bool, width, height int) lipgloss.Style {
	border := m.theme.Border
	if focused {
		border = m.theme.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-2, 0)).
		Height(max(height-2, 0))
}

func (m *Model) renderPaneTitle(title string, focused bool, width int) string {
	style := lipgloss.NewStyle().Foreground(m.theme.Muted).Bold(true)
	if focused {
		style = style.Foreground(m.theme.Accent)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(ansi.Truncate(title, width, "…")))
}

func (m *Model) renderTreePane(l layoutDims) string {
	inner := max(l.treeWidth-4, 1)
	focused := m.focus == treePane
	lines := append([]string{m.renderPaneTitle("Commits", focused, inner)}, m.renderTree(inner, l.paneInnerRows)...)
	return m.paneStyle(focused, l.treeWidth, l.bodyHeight).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPreviewPane(l layoutDims) string {
	if l.previewWidth < 4 {
		return ""
	}
	inner := l.previewWidth - 4
	focused := m.focus == previewPane
	content := m.preview.View()
	if m.previewKey == "" {
		content = lipgloss.NewStyle().Foreground(m.theme.Muted).Italic(true).Render("Nothing selected.")
	}
	title := m.renderPaneTitle(m.previewTitle(), focused, inner)
	return m.paneStyle(focused, l.previewWidth, l.bodyHeight).Render(title + "\n" + content)
}

func (m *Model) previewTitle() string {
	_, node, ok := m.selectedNode()
	if !ok {
		return "Diff"
	}
	if node.file != nil {
		return fmt.Sprintf("Diff · %s %s", node.commit.ShortSHA(), node.file.DisplayPath())
	}
	return "Diff · " + node.commit.ShortSHA()
}

func (m *Model) renderFooter(l layoutDims) string {
	hints := m.help.View(m.keys)

	statusStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)
	switch m.severity {
	case severityError:
		statusStyle = statusStyle.Foreground(m.theme.Deleted).Bold(true)
	case severityWarn:
		statusStyle = statusStyle.Foreground(m.theme.Modified)
	}
	status := statusStyle.Render(ansi.Truncate(m.status, max(l.width/3, 0), "…"))

	gap := max(l.width-2-lipgloss.Width(hints)-lipgloss.Width(status), 1)
	footer := lipgloss.JoinHorizontal(lipgloss.Bottom, hints, strings.Repeat(" ", gap), status)
	return lipgloss.NewStyle().Padding(0, 1).MaxWidth(l.width).Render(footer)
}

// highlightSpacing reports whether the highlight symbol column is drawn.
func (m *Model) highlightSpacing() bool {
	switch m.config.HighlightSpacing {
	case config.SpacingAlways:
		return true
	case config.SpacingNever:
		return false
	}
	_, ok := m.state.Selected()
	return ok
}

// renderTree draws the visible window of the stack, height lines at most.
// Only the rows inside the window are rendered.
func (m *Model) renderTree(width, height int) []string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted).Italic(true)
	if !m.loaded {
		return []string{muted.Render("Loading…")}
	}
	if len(m.root.children) == 0 {
		m.state.Reset()
		return []string{muted.Render(ansi.Truncate(fmt.Sprintf("No commits between %s and HEAD", m.config.Base), width, "…"))}
	}

	symbol := m.config.HighlightSymbol
	symbolWidth := ansi.StringWidth(symbol)
	spacing := m.highlightSpacing()
	contentWidth := width
	if spacing {
		contentWidth -= symbolWidth
	}

	first, last := tree.ComputeVisibleWindow(m.root, m.state, height, m.config.ScrollPadding, func(n *stackNode) int {
		return m.rowHeight(n, contentWidth)
	})
	selected, hasSelection := m.state.Selected()

	blank := strings.Repeat(" ", symbolWidth)
	symbolStyle := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)

	lines := make([]string, 0, height)
	for row := range tree.Visible(m.root, first, last) {
		isSelected := hasSelection && row.Address.Equal(selected)
		indent := strings.Repeat(m.config.Indent, row.Depth)
		for j, line := range m.rowLines(row.Node, isSelected, contentWidth) {
			prefix := ""
			if spacing {
				prefix = blank
				if isSelected && (j == 0 || m.config.RepeatHighlightSymbol) {
					prefix = symbolStyle.Render(symbol)
				}
			}
			lines = append(lines, ansi.Truncate(indent+prefix+line, width, ""))
		}
	}
	// A single row taller than the pane is cut.
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

// rowHeight must agree with the number of lines rowLines returns.
func (m *Model) rowHeight(n *stackNode, width int) int {
	if n.kind != kindCommit || !m.showBody {
		return 1
	}
	return 1 + len(m.bodyLines(n.commit, width))
}

func (m *Model) bodyLines(c *models.Commit, width int) []string {
	body := strings.TrimSpace(c.Body)
	if body == "" {
		return nil
	}
	wrapped := wrap.String(body, max(width-commitPrefixWidth, minBodyWidth))
	lines := strings.Split(wrapped, "\n")
	if limit := m.config.MaxBodyLines; limit > 0 && len(lines) > limit {
		lines = lines[:limit]
		lines[limit-1] += " …"
	}
	return lines
}

func (m *Model) rowLines(n *stackNode, selected bool, width int) []string {
	highlight := lipgloss.NewStyle().
		Background(m.theme.Accent).
		Foreground(m.theme.AccentFg).
		Bold(true)

	switch n.kind {
	case kindCommit:
		return m.commitLines(n, selected, highlight, width)
	case kindDir:
		label := iconWithSpace(m.icon(n.name, true)) + n.name + "/"
		style := lipgloss.NewStyle().Foreground(m.theme.Accent)
		if selected {
			style = highlight
		}
		return []string{disclosure(n.collapsed, m.config.ShowIcons) + " " + style.Render(label)}
	case kindFile:
		indicator := lipgloss.NewStyle().Foreground(m.changeColor(n.file.ChangeType)).Render(changeIndicator(n.file.ChangeType))
		label := iconWithSpace(m.icon(n.file.Filename, false)) + n.name
		style := lipgloss.NewStyle().Foreground(m.theme.Text)
		if selected {
			style = highlight
		}
		return []string{indicator + " " + style.Render(label)}
	}
	return nil
}

func (m *Model) commitLines(n *stackNode, selected bool, highlight lipgloss.Style, width int) []string {
	marker := "+"
	if !n.collapsed {
		marker = "-"
	}
	markerStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)
	shaStyle := lipgloss.NewStyle().Foreground(m.theme.Sha).Bold(true)
	subjectStyle := lipgloss.NewStyle().Foreground(m.theme.Text)
	bodyStyle := lipgloss.NewStyle().Foreground(m.theme.Muted)
	if selected {
		shaStyle = highlight
		subjectStyle = highlight.Bold(false)
	}

	first := markerStyle.Render(marker) + " " + shaStyle.Render(n.commit.ShortSHA()) + " " + subjectStyle.Render(n.commit.Subject)
	lines := []string{first}
	if !m.showBody {
		return lines
	}
	pad := strings.Repeat(" ", commitPrefixWidth)
	for _, line := range m.bodyLines(n.commit, width) {
		lines = append(lines, pad+bodyStyle.Render(line))
	}
	return lines
}

func (m *Model) icon(name string, isDir bool) string {
	if !m.config.ShowIcons {
		return ""
	}
	// Paths and compressed directory chains are named after their last
	// segment.
	return deviconForName(path.Base(name), isDir)
}

func (m *Model) changeColor(changeType string) lipgloss.Color {
	switch changeType {
	case models.ChangeAdded:
		return m.theme.Added
	case models.ChangeDeleted:
		return m.theme.Deleted
	case models.ChangeRenamed, models.ChangeCopied:
		return m.theme.Renamed
	}
	return m.theme.Modified
}
