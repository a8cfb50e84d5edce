// Package pool supplies the per-mode candidate pools the ranker scores.
// Path pools come from a version-controlled file listing held in a
// patricia trie; symbol pools come from the external analyzer. Every
// provider may return an empty pool to mean "data source unavailable";
// callers cannot tell that apart from "no candidates".
package pool

import (
	"path"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jellydator/ttlcache/v3"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/scopekit/scopeserve/pkg/rank"
)

// Lister supplies the workspace file listing as slash-separated
// relative paths. An empty listing means the source is unavailable.
type Lister interface {
	Files() ([]string, error)
}

const (
	foldersCacheKey   = "folders"
	DefaultFolderTTL  = 30 * time.Second
	defaultCacheItems = 4
)

// FileIndex holds the workspace listing and derives the Files and
// Folders candidate pools from it. The listing lives in a patricia
// trie keyed by relative path, which also serves prefix queries during
// folder resolution. The derived folder pool is comparatively
// expensive (every ancestor of every file), so it sits behind a TTL
// cache that refresh and watch events drop.
type FileIndex struct {
	mu     sync.RWMutex
	lister Lister
	trie   *patricia.Trie
	files  []rank.Candidate

	folderCache *ttlcache.Cache[string, []rank.Candidate]
}

// NewFileIndex builds an index over the lister and loads the initial
// listing. A lister error degrades to an empty index, not a failure.
func NewFileIndex(lister Lister, folderTTL time.Duration) *FileIndex {
	if folderTTL <= 0 {
		folderTTL = DefaultFolderTTL
	}
	c := ttlcache.New[string, []rank.Candidate](
		ttlcache.WithTTL[string, []rank.Candidate](folderTTL),
		ttlcache.WithDisableTouchOnHit[string, []rank.Candidate](),
	)
	go c.Start()

	x := &FileIndex{
		lister:      lister,
		trie:        patricia.NewTrie(),
		folderCache: c,
	}
	if err := x.Refresh(); err != nil {
		log.Warnf("initial listing failed, starting with empty index: %v", err)
	}
	return x
}

// Close stops the folder cache expiration loop.
func (x *FileIndex) Close() {
	x.folderCache.Stop()
}

// Refresh rebuilds the index from the lister and drops the cached
// folder pool.
func (x *FileIndex) Refresh() error {
	paths, err := x.lister.Files()

	x.mu.Lock()
	x.trie = patricia.NewTrie()
	x.files = x.files[:0]
	for _, p := range paths {
		short := path.Base(p)
		x.trie.Insert(patricia.Prefix(p), short)
		x.files = append(x.files, rank.Candidate{
			ID:    p,
			Short: short,
			Long:  p,
			Kind:  rank.KindFile,
		})
	}
	x.mu.Unlock()

	x.folderCache.Delete(foldersCacheKey)

	if err != nil {
		return err
	}
	log.Debugf("indexed %d files", len(paths))
	return nil
}

// Files returns the file candidate pool. Empty when the listing
// source is unavailable.
func (x *FileIndex) Files() []rank.Candidate {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]rank.Candidate, len(x.files))
	copy(out, x.files)
	return out
}

// Folders returns the folder candidate pool: every ancestor directory
// of every indexed file, deduped, first-seen order preserved.
func (x *FileIndex) Folders() []rank.Candidate {
	if item := x.folderCache.Get(foldersCacheKey); item != nil {
		return item.Value()
	}

	x.mu.RLock()
	folders := deriveFolders(x.files)
	x.mu.RUnlock()

	x.folderCache.Set(foldersCacheKey, folders, ttlcache.DefaultTTL)
	return folders
}

// deriveFolders collects ancestor directories in first-seen order.
func deriveFolders(files []rank.Candidate) []rank.Candidate {
	seen := make(map[string]bool)
	var out []rank.Candidate
	for _, f := range files {
		dir := path.Dir(f.Long)
		for dir != "." && dir != "/" && dir != "" {
			if !seen[dir] {
				seen[dir] = true
				out = append(out, rank.Candidate{
					ID:    dir,
					Short: path.Base(dir),
					Long:  dir,
					Kind:  rank.KindFolder,
				})
			}
			dir = path.Dir(dir)
		}
	}
	return out
}

// FilesUnder returns indexed paths below the given folder prefix.
// When direct is true only immediate children are returned.
func (x *FileIndex) FilesUnder(folder string, direct bool) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	prefix := folder
	if prefix != "" && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}

	var out []string
	err := x.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		rel := string(p)
		if direct && path.Dir(rel) != folder {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		log.Errorf("visiting path trie: %v", err)
	}
	return out
}

// Contains reports whether the exact relative path is indexed.
func (x *FileIndex) Contains(rel string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.trie.Get(patricia.Prefix(rel)) != nil
}

// AllPaths returns every indexed relative path in trie order.
func (x *FileIndex) AllPaths() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]string, 0, len(x.files))
	err := x.trie.Visit(func(p patricia.Prefix, _ patricia.Item) error {
		out = append(out, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("visiting path trie: %v", err)
	}
	return out
}
