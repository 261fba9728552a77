package grid

import "strconv"

type spanKind uint8

const (
	spanNone spanKind = iota
	spanHead
	spanSuppressed
)

// Span is the merge state of one cell: the head of a block of n rows, a
// suppressed cell covered by a head above it, or not merged at all. The zero
// Span is NotMerged.
type Span struct {
	kind spanKind
	n    int
}

// NotMerged is the Span of a cell that renders normally.
var NotMerged = Span{}

// Suppressed is the Span of a cell hidden under a head cell.
var Suppressed = Span{kind: spanSuppressed}

// Head returns the Span of a cell that covers n consecutive rows.
func Head(n int) Span { return Span{kind: spanHead, n: n} }

// IsHead reports whether s starts a merged block.
func (s Span) IsHead() bool { return s.kind == spanHead }

// IsSuppressed reports whether s is covered by a head above it.
func (s Span) IsSuppressed() bool { return s.kind == spanSuppressed }

// IsMerged reports whether s takes part in a merge.
func (s Span) IsMerged() bool { return s.kind != spanNone }

// Rows returns the block size of a head span and 0 otherwise.
func (s Span) Rows() int {
	if s.kind == spanHead {
		return s.n
	}
	return 0
}

// RowSpan returns the value for a renderer's rowspan attribute: n for a head,
// 0 for a suppressed cell (do not draw) and 1 for an unmerged cell.
func (s Span) RowSpan() int {
	switch s.kind {
	case spanHead:
		return s.n
	case spanSuppressed:
		return 0
	}
	return 1
}

func (s Span) String() string {
	switch s.kind {
	case spanHead:
		return "head(" + strconv.Itoa(s.n) + ")"
	case spanSuppressed:
		return "suppressed"
	}
	return "none"
}
