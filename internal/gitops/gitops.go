// Package gitops records book changes in the git repository holding the book.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepo is returned when a path is not inside a git work tree.
var ErrNotRepo = errors.New("not a git repository")

// Author identifies who a commit is attributed to.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// ParseAuthor parses "Name <email>".
func ParseAuthor(s string) (Author, error) {
	open := strings.LastIndex(s, "<")
	if open < 0 || !strings.HasSuffix(s, ">") {
		return Author{}, fmt.Errorf("author %q: want \"Name <email>\"", s)
	}
	a := Author{
		Name:  strings.TrimSpace(s[:open]),
		Email: strings.TrimSpace(s[open+1 : len(s)-1]),
	}
	if a.Name == "" || a.Email == "" {
		return Author{}, fmt.Errorf("author %q: want \"Name <email>\"", s)
	}
	return a, nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// Root returns the top of the work tree containing dir.
func Root(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotRepo, dir)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir is inside a git repository.
func IsRepo(dir string) bool {
	_, err := Root(dir)
	return err == nil
}

// CommitFiles stages the given files and commits only them. Returns the
// short commit hash. The author is also used as committer so that commits
// work without a configured git identity.
func CommitFiles(message string, author Author, files ...string) (string, error) {
	if len(files) == 0 {
		return "", errors.New("nothing to commit")
	}
	root, err := Root(filepath.Dir(files[0]))
	if err != nil {
		return "", err
	}
	rel, err := relativeTo(root, files)
	if err != nil {
		return "", err
	}
	files = rel

	// Stage the files.
	args := append([]string{"add", "--"}, files...)
	add := exec.Command("git", args...)
	add.Dir = root
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Commit.
	args = append([]string{"commit", "-m", message, "--author", author.String(), "--"}, files...)
	commit := exec.Command("git", args...)
	commit.Dir = root
	commit.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+author.Name,
		"GIT_COMMITTER_EMAIL="+author.Email,
	)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	// Get short hash.
	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = root
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// relativeTo expresses files relative to the work tree root, resolving
// symlinks so that temp directories behind links still match.
func relativeTo(root string, files []string) ([]string, error) {
	base, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		r, err := filepath.Rel(base, filepath.Join(dir, filepath.Base(abs)))
		if err != nil {
			return nil, fmt.Errorf("%s is outside %s: %w", f, root, err)
		}
		out = append(out, r)
	}
	return out, nil
}
