package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitShortSHA(t *testing.T) {
	assert.Equal(t, "0123abcd", Commit{SHA: "0123abcdef0123abcdef"}.ShortSHA())
	assert.Equal(t, "abc", Commit{SHA: "abc"}.ShortSHA())
}

func TestCommitParents(t *testing.T) {
	assert.True(t, Commit{}.IsRoot())
	assert.False(t, Commit{Parents: []string{"a"}}.IsMerge())
	assert.True(t, Commit{Parents: []string{"a", "b"}}.IsMerge())
}

func TestCommitFileDisplayPath(t *testing.T) {
	assert.Equal(t, "a.go", CommitFile{Filename: "a.go", ChangeType: ChangeModified}.DisplayPath())
	assert.Equal(t, "old.go → new.go", CommitFile{Filename: "new.go", OldPath: "old.go", ChangeType: ChangeRenamed}.DisplayPath())
}
