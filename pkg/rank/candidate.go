package rank

// Kind tags what a candidate is. Symbol kinds drive the per-mode
// category filter; path kinds exist so callers can share one
// candidate type across every pool.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindFile
	KindFolder
	KindClass
	KindInterface
	KindStruct
	KindEnum
	KindFunction
	KindMethod
	KindField
	KindModule
)

// ClassLike reports whether the kind counts as a class for the
// Classes mode filter.
func (k Kind) ClassLike() bool {
	switch k {
	case KindClass, KindInterface, KindStruct, KindEnum:
		return true
	}
	return false
}

// FunctionLike reports whether the kind counts as a function for the
// Methods mode filter.
func (k Kind) FunctionLike() bool {
	return k == KindFunction || k == KindMethod
}

// Candidate is a single item eligible for suggestion: a path or a
// symbol. Short is the final path segment or symbol short name; Long
// is the full relative path or fully-qualified name.
type Candidate struct {
	ID    string
	Short string
	Long  string
	Kind  Kind
}

// Suggestion is a Candidate paired with its winning match cost.
type Suggestion struct {
	Candidate
	Cost int
}
