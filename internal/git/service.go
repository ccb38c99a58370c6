// Package git reads the commit stack of a repository by shelling out to git.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	log "github.com/chmouel/lazystack/internal/log"
	"github.com/chmouel/lazystack/internal/models"
)

var (
	// ErrNotRepository is returned when a path is not inside a git work tree.
	ErrNotRepository = errors.New("not a git repository")
	// ErrMergeCommit is returned when the changes of a commit with several
	// parents are requested.
	ErrMergeCommit = errors.New("merge commits cannot be expanded")
)

// LookupPath finds executables in PATH. Tests replace it to avoid depending
// on installed binaries.
var LookupPath = exec.LookPath

// NotifyFn receives messages worth surfacing in the UI.
type NotifyFn func(message string, severity string)

// CommandError describes a git invocation that exited unsuccessfully.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	cmd := "git " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", cmd, e.Stderr)
	}
	return fmt.Sprintf("%s: exit %d", cmd, e.ExitCode)
}

// Service runs git inside one repository.
type Service struct {
	dir          string
	notify       NotifyFn
	semaphore    chan struct{}
	gitPager     string
	gitPagerArgs []string
	useGitPager  bool
	maxDiffChars int
}

// Option configures a Service.
type Option func(*Service)

// WithNotify routes pager problems to fn.
func WithNotify(fn NotifyFn) Option {
	return func(s *Service) { s.notify = fn }
}

// WithGitPager pipes diffs through pager with args, when pager is installed.
func WithGitPager(pager string, args []string) Option {
	return func(s *Service) {
		s.gitPager = strings.TrimSpace(pager)
		s.gitPagerArgs = slices.Clone(args)
	}
}

// WithMaxDiffChars truncates diffs longer than n characters. Zero disables
// truncation.
func WithMaxDiffChars(n int) Option {
	return func(s *Service) { s.maxDiffChars = max(n, 0) }
}

// Open returns a Service for the work tree containing path.
func Open(ctx context.Context, path string, opts ...Option) (*Service, error) {
	s := &Service{notify: func(string, string) {}}
	for _, opt := range opts {
		opt(s)
	}

	limit := min(max(runtime.NumCPU()*2, 4), 32)
	s.semaphore = make(chan struct{}, limit)

	top, err := s.RunGit(ctx, []string{"rev-parse", "--show-toplevel"}, path, nil, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	s.dir = top
	s.useGitPager = s.isGitPagerAvailable()
	log.Printf("git: opened %s (pager=%q enabled=%v)", s.dir, s.gitPager, s.useGitPager)
	return s, nil
}

// Dir returns the top-level directory of the work tree.
func (s *Service) Dir() string {
	return s.dir
}

// RunGit runs git with args in cwd, or in the work tree when cwd is empty.
// Exit codes listed in okReturncodes are not errors.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int, strip bool) (string, error) {
	if cwd == "" {
		cwd = s.dir
	}
	command := strings.Join(args, " ")
	log.Printf("run: git %s (cwd=%s)", command, cwd)

	select {
	case s.semaphore <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-s.semaphore }()

	// #nosec G204 -- arguments come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = cwd
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			log.Printf("error: git %s: %v", command, err)
			return "", fmt.Errorf("git %s: %w", command, err)
		}
		if !slices.Contains(okReturncodes, exitErr.ExitCode()) {
			cerr := &CommandError{Args: args, ExitCode: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
			log.Printf("error: %v", cerr)
			return "", cerr
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	log.Printf("ok: git %s", command)
	return out, nil
}

// ResolveRef returns the commit hash ref points to.
func (s *Service) ResolveRef(ctx context.Context, ref string) (string, error) {
	sha, err := s.RunGit(ctx, []string{"rev-parse", "--verify", "--quiet", ref + "^{commit}"}, "", nil, true)
	if err != nil {
		return "", fmt.Errorf("unknown revision %q: %w", ref, err)
	}
	return sha, nil
}

// MergeBase returns the best common ancestor of a and b.
func (s *Service) MergeBase(ctx context.Context, a, b string) (string, error) {
	sha, err := s.RunGit(ctx, []string{"merge-base", a, b}, "", nil, true)
	if err != nil {
		return "", fmt.Errorf("no merge base between %s and %s: %w", a, b, err)
	}
	return sha, nil
}

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	// hash, parents, author name, author email, author time, subject, body
	logFormat = "%H%x1f%P%x1f%an%x1f%ae%x1f%at%x1f%s%x1f%b%x1e"
)

// StackCommits lists the commits reachable from HEAD but not from the merge
// base of base and HEAD, newest first in topological order.
func (s *Service) StackCommits(ctx context.Context, base string) ([]models.Commit, error) {
	baseSHA, err := s.ResolveRef(ctx, base)
	if err != nil {
		return nil, err
	}
	mb, err := s.MergeBase(ctx, "HEAD", baseSHA)
	if err != nil {
		return nil, err
	}
	raw, err := s.RunGit(ctx, []string{
		"-c", "log.showSignature=false",
		"log", "--no-color", "--topo-order", "--format=" + logFormat, mb + "..HEAD",
	}, "", nil, false)
	if err != nil {
		return nil, err
	}
	commits := parseCommits(raw)
	log.Printf("git: %d commits between %s and HEAD", len(commits), base)
	return commits, nil
}

func parseCommits(raw string) []models.Commit {
	var commits []models.Commit
	for record := range strings.SplitSeq(raw, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 7)
		if len(fields) < 7 {
			continue
		}
		c := models.Commit{
			SHA:         fields[0],
			Parents:     strings.Fields(fields[1]),
			Author:      fields[2],
			AuthorEmail: fields[3],
			Subject:     fields[5],
			Body:        strings.TrimSpace(fields[6]),
		}
		if ts, err := strconv.ParseInt(fields[4], 10, 64); err == nil {
			c.AuthorTime = time.Unix(ts, 0)
		}
		commits = append(commits, c)
	}
	return commits
}

// parents returns the parent hashes of sha.
func (s *Service) parents(ctx context.Context, sha string) ([]string, error) {
	raw, err := s.RunGit(ctx, []string{"rev-list", "--parents", "-n", "1", sha}, "", nil, true)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, fmt.Errorf("unknown commit %s", sha)
	}
	return fields[1:], nil
}

// CommitFiles lists the files sha changed against its parent. Root commits
// are compared with the empty tree.
func (s *Service) CommitFiles(ctx context.Context, sha string) ([]models.CommitFile, error) {
	parents, err := s.parents(ctx, sha)
	if err != nil {
		return nil, err
	}
	if len(parents) > 1 {
		return nil, fmt.Errorf("%s: %w", sha, ErrMergeCommit)
	}

	args := []string{"diff-tree", "--no-commit-id", "--name-status", "-r", "-M", "-C"}
	if len(parents) == 0 {
		args = append(args, "--root")
	}
	raw, err := s.RunGit(ctx, append(args, sha), "", nil, false)
	if err != nil {
		return nil, err
	}
	return parseCommitFiles(raw), nil
}

// parseCommitFiles parses git diff-tree --name-status output: "M\tpath", or
// "R100\told\tnew" for renames and copies.
func parseCommitFiles(raw string) []models.CommitFile {
	files := []models.CommitFile{}
	for line := range strings.Lines(raw) {
		line = strings.TrimRight(line, "\r\n")
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}

		file := models.CommitFile{ChangeType: parts[0][:1], Filename: parts[1]}
		if (file.ChangeType == models.ChangeRenamed || file.ChangeType == models.ChangeCopied) && len(parts) >= 3 {
			file.OldPath, file.Filename = parts[1], parts[2]
		}
		files = append(files, file)
	}
	return files
}

// CommitDiff returns the formatted patch of sha with a stat header.
func (s *Service) CommitDiff(ctx context.Context, sha string) (string, error) {
	diff, err := s.RunGit(ctx, []string{"show", "--no-color", "--no-ext-diff", "--stat", "--patch", "--format=fuller", sha}, "", nil, false)
	if err != nil {
		return "", err
	}
	return s.ApplyGitPager(ctx, s.truncate(diff)), nil
}

// FileDiff returns the patch sha applied to one file. Renames and copies
// include the source path so the pair is shown as such.
func (s *Service) FileDiff(ctx context.Context, sha string, file models.CommitFile) (string, error) {
	args := []string{"show", "--no-color", "--no-ext-diff", "-M", "-C", "--format=", sha, "--", file.Filename}
	if file.OldPath != "" {
		args = append(args, file.OldPath)
	}
	diff, err := s.RunGit(ctx, args, "", nil, false)
	if err != nil {
		return "", err
	}
	return s.ApplyGitPager(ctx, s.truncate(diff)), nil
}

func (s *Service) truncate(diff string) string {
	if s.maxDiffChars == 0 || len(diff) <= s.maxDiffChars {
		return diff
	}
	cut := strings.ToValidUTF8(diff[:s.maxDiffChars], "")
	return cut + fmt.Sprintf("\n\n[diff truncated at %d characters]\n", s.maxDiffChars)
}

// GitDir returns the absolute git directory of the work tree.
func (s *Service) GitDir(ctx context.Context) (string, error) {
	return s.absGitPath(ctx, "--git-dir")
}

// CommonDir returns the absolute directory shared by all work trees, where
// refs live.
func (s *Service) CommonDir(ctx context.Context) (string, error) {
	return s.absGitPath(ctx, "--git-common-dir")
}

func (s *Service) absGitPath(ctx context.Context, flag string) (string, error) {
	dir, err := s.RunGit(ctx, []string{"rev-parse", flag}, "", nil, true)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.dir, dir)
	}
	return filepath.Clean(dir), nil
}

func (s *Service) isGitPagerAvailable() bool {
	if s.gitPager == "" {
		return false
	}
	if _, err := LookupPath(s.gitPager); err != nil {
		log.Printf("git: pager %q not found: %v", s.gitPager, err)
		return false
	}
	return true
}

// UseGitPager reports whether diffs go through the configured pager.
func (s *Service) UseGitPager() bool {
	return s.useGitPager
}

// ApplyGitPager pipes diff through the configured pager. The diff is
// returned unchanged when no pager is available or it fails.
func (s *Service) ApplyGitPager(ctx context.Context, diff string) string {
	if !s.useGitPager || diff == "" {
		return diff
	}

	args := []string{}
	if filepath.Base(s.gitPager) == "delta" {
		args = append(args, "--no-gitconfig", "--paging=never")
	}
	args = append(args, s.gitPagerArgs...)

	// #nosec G204 -- git_pager comes from local config and is controlled by the user
	cmd := exec.CommandContext(ctx, s.gitPager, args...)
	cmd.Stdin = strings.NewReader(diff)
	output, err := cmd.Output()
	if err != nil {
		log.Printf("git: pager %s failed: %v", s.gitPager, err)
		s.notify(fmt.Sprintf("Pager %s failed, showing plain diff", s.gitPager), "warn")
		return diff
	}
	return string(output)
}
