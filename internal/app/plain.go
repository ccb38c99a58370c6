package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/lazystack/internal/config"
	"github.com/chmouel/lazystack/internal/git"
	"github.com/chmouel/lazystack/internal/log"
	"github.com/chmouel/lazystack/internal/tree"
)

// WritePlain prints the stack to w without any styling, one row per line,
// indented by depth. With files set every commit is expanded; merge commits
// are listed without files.
func WritePlain(ctx context.Context, w io.Writer, cfg *config.AppConfig, svc GitService, files bool) error {
	commits, err := svc.StackCommits(ctx, cfg.Base)
	if err != nil {
		return err
	}

	layout := newStackLayout(cfg.FileTree)
	if files {
		for _, c := range commits {
			changed, err := svc.CommitFiles(ctx, c.SHA)
			if errors.Is(err, git.ErrMergeCommit) {
				log.Printf("list: skipping files of merge commit %s", c.ShortSHA())
				continue
			}
			if err != nil {
				return err
			}
			layout.files[c.SHA] = changed
			layout.expanded[c.SHA] = true
		}
	}

	root := layout.build(commits)
	for depth, n := range tree.AllWithDepth(root) {
		if _, err := fmt.Fprintln(w, strings.Repeat(cfg.Indent, depth)+plainLabel(n)); err != nil {
			return err
		}
	}
	return nil
}

func plainLabel(n *stackNode) string {
	switch n.kind {
	case kindCommit:
		return n.commit.ShortSHA() + " " + n.commit.Subject
	case kindDir:
		return n.name + "/"
	case kindFile:
		return changeIndicator(n.file.ChangeType) + " " + n.name
	}
	return ""
}
