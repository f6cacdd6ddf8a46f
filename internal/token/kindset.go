package token

import "strings"

// KindSet is a set of token kinds, used for "expected ..." lists.
type KindSet uint64

// kindCount must fit into the bitset.
var _ [64 - kindCount]struct{}

// SetOf builds a set from the given kinds.
func SetOf(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s KindSet) With(k Kind) KindSet     { return s | 1<<k }
func (s KindSet) Has(k Kind) bool         { return s&(1<<k) != 0 }
func (s KindSet) Union(o KindSet) KindSet { return s | o }
func (s KindSet) Empty() bool             { return s == 0 }

// Kinds returns the members in ascending Kind order.
func (s KindSet) Kinds() []Kind {
	if s == 0 {
		return nil
	}
	out := make([]Kind, 0, 8)
	for k := Kind(0); k < kindCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// DescribeKinds joins the human-readable names with ", ".
// An empty list reads "something else".
func DescribeKinds(kinds []Kind) string {
	if len(kinds) == 0 {
		return "something else"
	}
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.Describe())
	}
	return strings.Join(names, ", ")
}
