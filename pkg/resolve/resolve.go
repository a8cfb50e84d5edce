// Package resolve turns a confirmed selection (active mode + raw input
// text + flags) into content fragments. Unresolvable input yields zero
// fragments, never an error; there is nothing fatal on this path.
package resolve

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	"github.com/scopekit/scopeserve/internal/utils"
	"github.com/scopekit/scopeserve/pkg/gate"
	"github.com/scopekit/scopeserve/pkg/pool"
	"github.com/scopekit/scopeserve/pkg/rank"
)

// Flags carries the auxiliary checkboxes confirmed alongside the text.
type Flags struct {
	IncludeSubfolders bool
	IncludeTests      bool
	Summarize         bool
}

// Fragment is one attached unit of workspace context. Ref is a
// relative path for file-backed fragments or a fully-qualified name
// for symbol-backed ones.
type Fragment struct {
	Ref       string
	Origin    gate.Mode
	Symbol    bool
	Summarize bool
}

// Resolver resolves confirmed input against the file index and the
// analyzer's symbol source.
type Resolver struct {
	Index  *pool.FileIndex
	Source pool.SymbolSource
}

// Resolve dispatches on the confirmed mode. Empty trimmed input
// resolves to nothing.
func (r *Resolver) Resolve(mode gate.Mode, input string, flags Flags) []Fragment {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	switch mode {
	case gate.Files:
		return r.resolveFiles(input, flags)
	case gate.Folders:
		return r.resolveFolder(input, flags)
	case gate.Classes:
		return r.resolveSymbols(gate.Classes, input, flags, rank.Kind.ClassLike)
	case gate.Methods:
		return r.resolveSymbols(gate.Methods, input, flags, rank.Kind.FunctionLike)
	case gate.Usages:
		return r.resolveSymbols(gate.Usages, input, flags, nil)
	}
	return nil
}

// resolveFiles matches the input against the listing. Wildcard input
// (* or ?) expands to every matching indexed path; literal input must
// be an indexed path.
func (r *Resolver) resolveFiles(input string, flags Flags) []Fragment {
	if r.Index == nil {
		return nil
	}
	input = utils.NormalizeSeparators(input)

	if !strings.ContainsAny(input, "*?") {
		if !r.Index.Contains(input) {
			return nil
		}
		return []Fragment{{Ref: input, Origin: gate.Files, Summarize: flags.Summarize}}
	}

	g, err := glob.Compile(input, '/')
	if err != nil {
		log.Debugf("bad file pattern %q: %v", input, err)
		return nil
	}

	var out []Fragment
	for _, p := range r.Index.AllPaths() {
		if g.Match(p) {
			out = append(out, Fragment{Ref: p, Origin: gate.Files, Summarize: flags.Summarize})
		}
	}
	return out
}

// resolveFolder attaches the files inside the confirmed folder,
// direct children only unless IncludeSubfolders is set.
func (r *Resolver) resolveFolder(input string, flags Flags) []Fragment {
	if r.Index == nil {
		return nil
	}
	folder := strings.Trim(utils.NormalizeSeparators(input), "/")
	if folder == "" {
		return nil
	}

	paths := r.Index.FilesUnder(folder, !flags.IncludeSubfolders)
	out := make([]Fragment, 0, len(paths))
	for _, p := range paths {
		out = append(out, Fragment{Ref: p, Origin: gate.Folders, Summarize: flags.Summarize})
	}
	return out
}

// resolveSymbols asks the analyzer for definitions of the input and
// keeps exact short-name or qualified-name hits of the right category.
// The IncludeTests flag only has meaning for Usages.
func (r *Resolver) resolveSymbols(mode gate.Mode, input string, flags Flags, keep func(k rank.Kind) bool) []Fragment {
	if r.Source == nil {
		return nil
	}
	syms, err := r.Source.Definitions(input)
	if err != nil {
		log.Warnf("symbol resolution failed: %v", err)
		return nil
	}

	var out []Fragment
	for _, s := range syms {
		if keep != nil && !keep(s.Kind) {
			continue
		}
		if s.FQName != input && s.Short != input {
			continue
		}
		if mode == gate.Usages && !flags.IncludeTests && looksLikeTest(s.FQName) {
			continue
		}
		out = append(out, Fragment{
			Ref:       s.FQName,
			Origin:    mode,
			Symbol:    true,
			Summarize: flags.Summarize,
		})
	}
	return out
}

func looksLikeTest(fqName string) bool {
	return strings.Contains(strings.ToLower(fqName), "test")
}
