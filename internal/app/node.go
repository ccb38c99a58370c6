package app

import (
	"path"
	"slices"
	"strings"

	"github.com/chmouel/lazystack/internal/models"
)

type nodeKind int

const (
	kindRoot nodeKind = iota
	kindCommit
	kindDir
	kindFile
)

// stackNode is one row of the stack view. The root holds the commits, an
// expanded commit holds its files, optionally grouped in directories.
type stackNode struct {
	kind   nodeKind
	commit *models.Commit // set on every node below the root
	file   *models.CommitFile
	// path is the directory path for directory rows, the file path for file
	// rows.
	path string
	// name is what the row displays; compressed directory chains show
	// several segments.
	name      string
	collapsed bool
	children  []*stackNode
}

func (n *stackNode) NumChildren() int {
	if n.collapsed {
		return 0
	}
	return len(n.children)
}

func (n *stackNode) Child(i int) *stackNode {
	return n.children[i]
}

// key identifies a row across reloads.
func (n *stackNode) key() string {
	switch n.kind {
	case kindCommit:
		return n.commit.SHA
	case kindDir, kindFile:
		return n.commit.SHA + ":" + n.path
	}
	return ""
}

// stackLayout is what survives a reload: which commits are expanded, which
// directories are folded, and the files loaded so far.
type stackLayout struct {
	files     map[string][]models.CommitFile // by commit sha
	expanded  map[string]bool                // by commit sha
	collapsed map[string]bool                // by directory key
	grouped   bool
}

func newStackLayout(grouped bool) *stackLayout {
	return &stackLayout{
		files:     make(map[string][]models.CommitFile),
		expanded:  make(map[string]bool),
		collapsed: make(map[string]bool),
		grouped:   grouped,
	}
}

// build returns a fresh tree for commits. Commits whose files are not
// loaded yet stay collapsed whatever the layout says.
func (l *stackLayout) build(commits []models.Commit) *stackNode {
	root := &stackNode{kind: kindRoot, children: make([]*stackNode, 0, len(commits))}
	for i := range commits {
		c := &commits[i]
		node := &stackNode{kind: kindCommit, commit: c, name: c.Subject, collapsed: true}
		if files, ok := l.files[c.SHA]; ok {
			node.children = l.fileRows(c, files)
			node.collapsed = !l.expanded[c.SHA]
		}
		root.children = append(root.children, node)
	}
	return root
}

func (l *stackLayout) fileRows(c *models.Commit, files []models.CommitFile) []*stackNode {
	if !l.grouped {
		rows := make([]*stackNode, 0, len(files))
		for i := range files {
			f := &files[i]
			rows = append(rows, &stackNode{kind: kindFile, commit: c, file: f, path: f.Filename, name: f.DisplayPath()})
		}
		return rows
	}
	return buildFileTree(c, files, l.collapsed)
}

// toggle flips a commit or directory row. It reports false for a commit
// whose files still have to be loaded.
func (l *stackLayout) toggle(n *stackNode) bool {
	switch n.kind {
	case kindCommit:
		if _, ok := l.files[n.commit.SHA]; !ok {
			return false
		}
		n.collapsed = !n.collapsed
		l.expanded[n.commit.SHA] = !n.collapsed
	case kindDir:
		n.collapsed = !n.collapsed
		l.collapsed[n.key()] = n.collapsed
	}
	return true
}

// buildFileTree groups files by directory: directories first, each level
// sorted by path, and chains of single-directory levels squashed into one
// row.
func buildFileTree(c *models.Commit, files []models.CommitFile, collapsed map[string]bool) []*stackNode {
	top := &stackNode{kind: kindDir}
	dirs := make(map[string]*stackNode)

	for i := range files {
		f := &files[i]
		parts := strings.Split(f.Filename, "/")
		parent := top
		for j := range len(parts) - 1 {
			dirPath := strings.Join(parts[:j+1], "/")
			dir, ok := dirs[dirPath]
			if !ok {
				dir = &stackNode{kind: kindDir, commit: c, path: dirPath, name: parts[j]}
				dirs[dirPath] = dir
				parent.children = append(parent.children, dir)
			}
			parent = dir
		}
		name := parts[len(parts)-1]
		if f.OldPath != "" && f.OldPath != f.Filename {
			name += " ← " + f.OldPath
		}
		parent.children = append(parent.children, &stackNode{kind: kindFile, commit: c, file: f, path: f.Filename, name: name})
	}

	sortFileTree(top)
	compressFileTree(top)

	for _, dir := range dirs {
		dir.collapsed = collapsed[dir.key()]
	}
	return top.children
}

func sortFileTree(n *stackNode) {
	slices.SortFunc(n.children, func(a, b *stackNode) int {
		if (a.kind == kindDir) != (b.kind == kindDir) {
			if a.kind == kindDir {
				return -1
			}
			return 1
		}
		return strings.Compare(a.path, b.path)
	})
	for _, child := range n.children {
		sortFileTree(child)
	}
}

func compressFileTree(n *stackNode) {
	for _, child := range n.children {
		compressFileTree(child)
	}
	for i, child := range n.children {
		for child.kind == kindDir && len(child.children) == 1 && child.children[0].kind == kindDir {
			grandchild := child.children[0]
			grandchild.name = path.Join(child.name, grandchild.name)
			n.children[i] = grandchild
			child = grandchild
		}
	}
}
