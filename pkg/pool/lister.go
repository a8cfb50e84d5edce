package pool

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// GitLister walks a workspace root that carries git metadata and
// reports its file listing. A root without git metadata reports an
// empty listing, so Files/Folders suggestions degrade to empty rather
// than showing arbitrary unversioned trees. The walk approximates the
// tracked tree: dot-directories are skipped but ignore rules are not
// consulted, so untracked build output outside hidden dirs can still
// appear. Embedders with a real VCS integration should supply their
// own Lister instead.
type GitLister struct {
	Root string
}

// NewGitLister wraps root. The root is not validated here; every
// Files call re-checks so a repo initialized later just starts working.
func NewGitLister(root string) *GitLister {
	return &GitLister{Root: root}
}

// Files returns slash-separated paths relative to the root. Missing
// git metadata or an unreadable root yields an empty listing without
// an error; this is the "pool unavailable" degraded state.
func (l *GitLister) Files() ([]string, error) {
	if !hasGit(l.Root) {
		log.Debugf("no git metadata under %s, listing unavailable", l.Root)
		return nil, nil
	}

	var out []string
	err := filepath.WalkDir(l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtree, skip it
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if p != l.Root && (name == ".git" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(l.Root, p)
		if relErr != nil {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func hasGit(root string) bool {
	info, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil && info.IsDir()
}

// StaticLister serves a fixed listing. Used by tests and by embedders
// that already hold a listing from their own VCS integration.
type StaticLister struct {
	Paths []string
}

func (l StaticLister) Files() ([]string, error) {
	return l.Paths, nil
}
