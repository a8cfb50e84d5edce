package pool

import (
	"github.com/charmbracelet/log"

	"github.com/scopekit/scopeserve/pkg/rank"
)

// Provider supplies the candidate pool for one mode. The pattern is
// passed through so analyzer-backed pools can narrow server-side;
// path pools ignore it. An empty pool signals "unavailable" and the
// ranker degrades to an empty suggestion list.
type Provider interface {
	Candidates(pattern string) []rank.Candidate
}

// FilesProvider adapts a FileIndex to the Files pool.
type FilesProvider struct {
	Index *FileIndex
}

func (p FilesProvider) Candidates(string) []rank.Candidate {
	return p.Index.Files()
}

// FoldersProvider adapts a FileIndex to the Folders pool.
type FoldersProvider struct {
	Index *FileIndex
}

func (p FoldersProvider) Candidates(string) []rank.Candidate {
	return p.Index.Folders()
}

// Symbol is one analyzer-reported declaration.
type Symbol struct {
	Short  string
	FQName string
	Kind   rank.Kind
}

// SymbolSource is the analyzer-side provider of symbol records. A
// failing or absent source is treated as an unavailable pool, never
// surfaced as an error to the ranking path.
type SymbolSource interface {
	Definitions(query string) ([]Symbol, error)
}

// symbolQueryCap bounds how many analyzer records one query pulls in.
const symbolQueryCap = 5000

// SymbolsProvider adapts a SymbolSource to a candidate pool. The
// per-mode category filter happens in the ranker, not here; one
// provider instance serves Classes, Methods and Usages alike.
type SymbolsProvider struct {
	Source SymbolSource
}

func (p SymbolsProvider) Candidates(pattern string) []rank.Candidate {
	if p.Source == nil {
		return nil
	}
	syms, err := p.Source.Definitions(pattern)
	if err != nil {
		log.Warnf("symbol lookup failed, treating pool as unavailable: %v", err)
		return nil
	}
	if len(syms) > symbolQueryCap {
		syms = syms[:symbolQueryCap]
	}

	out := make([]rank.Candidate, 0, len(syms))
	for _, s := range syms {
		out = append(out, rank.Candidate{
			ID:    s.FQName,
			Short: s.Short,
			Long:  s.FQName,
			Kind:  s.Kind,
		})
	}
	return out
}
