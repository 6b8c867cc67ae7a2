package list

import "iter"

// Iterator walks a list from front to back. Each value it yields is a View
// that stays valid until the next call to Next or Close. Iterators never
// mutate the list.
type Iterator struct {
	list *List
	gen  uint64
	next handle
	view *View
	done bool
}

// Iter returns an iterator positioned before the first element.
func (l *List) Iter() *Iterator {
	return &Iterator{
		list: l,
		gen:  l.gen,
		next: l.head,
		done: l.head == nil,
	}
}

// Next releases the previously returned view and returns a view of the next
// value. It returns false once the end of the list is reached, and on every
// call after that. Next panics with ErrStaleIterator if the list was cleared,
// or had a node unlinked, since the iterator was created.
func (it *Iterator) Next() (*View, bool) {
	it.release()
	if it.done {
		return nil, false
	}
	if it.list.gen != it.gen {
		it.done = true
		panic(ErrStaleIterator)
	}
	cur := it.next
	it.view = newView(cur)
	it.next = it.view.ref.Get().next
	if it.next == nil {
		it.done = true
	}
	return it.view, true
}

// Close releases any view held by the iterator and makes it terminal.
func (it *Iterator) Close() {
	it.release()
	it.next = nil
	it.done = true
}

func (it *Iterator) release() {
	if it.view != nil {
		it.view.Release()
		it.view = nil
	}
}

// All returns a sequence of copies of the list's values, front to back.
// Breaking out of the loop early releases the iterator's borrow.
func (l *List) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := l.Iter()
		defer it.Close()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v.Value()) {
				return
			}
		}
	}
}

// Values returns the list's values front to back. This function is O(n).
func (l *List) Values() []uint32 {
	var out []uint32
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}
