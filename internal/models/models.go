// Package models defines the data objects shared across lazystack packages.
package models

import "time"

// ShortSHALength is the number of hex digits shown for a commit.
const ShortSHALength = 8

// Commit is one commit of the stack.
type Commit struct {
	SHA         string
	Parents     []string
	Author      string
	AuthorEmail string
	AuthorTime  time.Time
	Subject     string
	Body        string
}

// ShortSHA returns the abbreviated commit hash.
func (c Commit) ShortSHA() string {
	if len(c.SHA) <= ShortSHALength {
		return c.SHA
	}
	return c.SHA[:ShortSHALength]
}

// IsMerge reports whether the commit has more than one parent. Its changes
// cannot be listed against a single parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// IsRoot reports whether the commit has no parent.
func (c Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// Change types reported by git diff-tree --name-status.
const (
	ChangeAdded    = "A"
	ChangeDeleted  = "D"
	ChangeModified = "M"
	ChangeRenamed  = "R"
	ChangeCopied   = "C"
	ChangeType     = "T"
)

// CommitFile represents a file changed in a commit.
type CommitFile struct {
	Filename   string
	ChangeType string
	OldPath    string // source path of a rename or copy
}

// DisplayPath returns "old → new" for renames and copies, the file name
// otherwise.
func (f CommitFile) DisplayPath() string {
	if f.OldPath != "" && f.OldPath != f.Filename {
		return f.OldPath + " → " + f.Filename
	}
	return f.Filename
}
