package state

// List is an ordered view with an optional selection. The selection is either
// unset or a valid index; every mutating method keeps that true.
type List[T any] struct {
	items    []T
	selected int
}

// NewList returns a list holding items with nothing selected.
func NewList[T any](items []T) List[T] {
	return List[T]{items: items, selected: -1}
}

func (l *List[T]) Items() []T {
	return l.items
}

func (l *List[T]) Len() int {
	return len(l.items)
}

// Index returns the selected index, or false when nothing is selected.
func (l *List[T]) Index() (int, bool) {
	if l.selected < 0 || l.selected >= len(l.items) {
		return 0, false
	}
	return l.selected, true
}

// Selected returns the selected item.
func (l *List[T]) Selected() (T, bool) {
	idx, ok := l.Index()
	if !ok {
		var zero T
		return zero, false
	}
	return l.items[idx], true
}

// SetItems replaces the items and clears the selection.
func (l *List[T]) SetItems(items []T) {
	l.items = items
	l.selected = -1
}

// Select sets the selection. Out-of-range indices clear it.
func (l *List[T]) Select(idx int) {
	if idx < 0 || idx >= len(l.items) {
		l.selected = -1
		return
	}
	l.selected = idx
}

// Unselect clears the selection.
func (l *List[T]) Unselect() {
	l.selected = -1
}

// Next advances the selection, wrapping from the last item to the first.
func (l *List[T]) Next() {
	n := len(l.items)
	if n == 0 {
		l.selected = -1
		return
	}
	idx, ok := l.Index()
	if !ok || idx >= n-1 {
		l.selected = 0
		return
	}
	l.selected = idx + 1
}

// Previous moves the selection back, wrapping from the first item to the last.
func (l *List[T]) Previous() {
	n := len(l.items)
	if n == 0 {
		l.selected = -1
		return
	}
	idx, ok := l.Index()
	if !ok || idx == 0 {
		l.selected = n - 1
		return
	}
	l.selected = idx - 1
}
