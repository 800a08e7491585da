package diag

import (
	"sort"
)

type Bag struct {
	items []Diagnostic
}

func NewBag(capacity int) *Bag {
	if capacity < 0 {
		capacity = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, capacity),
	}
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Extend appends a batch of diagnostics in order.
func (b *Bag) Extend(ds []Diagnostic) {
	b.items = append(b.items, ds...)
}

// HasErrors returns true if at least one diagnostic has SevError.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity == SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends all diagnostics of other.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Sorted returns a copy ordered by filename, line, column, then code.
func (b *Bag) Sorted() []Diagnostic {
	out := append([]Diagnostic(nil), b.items...)
	SortDiagnostics(out)
	return out
}

// Sort orders the bag in place, see SortDiagnostics.
func (b *Bag) Sort() {
	SortDiagnostics(b.items)
}

// SortDiagnostics sorts by filename, line and column for stable output.
// Code and message break ties so the order never depends on rule order.
func SortDiagnostics(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		di, dj := ds[i], ds[j]
		if di.Filename != dj.Filename {
			return di.Filename < dj.Filename
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})
}

// CountByCode groups diagnostics by code.
func (b *Bag) CountByCode() map[Code]int {
	counts := make(map[Code]int)
	for _, d := range b.items {
		counts[d.Code]++
	}
	return counts
}
