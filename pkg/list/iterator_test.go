package list

import (
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"

	"hop.computer/rclist/pkg/cell"
)

func TestIterate(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)

	it := l.Iter()
	for want := uint32(1); want <= 3; want++ {
		v, ok := it.Next()
		assert.Assert(t, ok)
		assert.Check(t, is.Equal(want, v.Value()))
	}
	v, ok := it.Next()
	assert.Check(t, !ok)
	assert.Check(t, is.Nil(v))

	// Terminal state is sticky, even if the list grows afterwards.
	l.PushBack(4)
	_, ok = it.Next()
	assert.Check(t, !ok)
}

func TestIterateEmpty(t *testing.T) {
	it := New().Iter()
	_, ok := it.Next()
	assert.Check(t, !ok)
	_, ok = it.Next()
	assert.Check(t, !ok)
}

func TestIteratorReleasesPreviousView(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)

	it := l.Iter()
	first, _ := it.Next()
	assert.Equal(t, 1, l.head.Borrowed())
	it.Next()
	assert.Equal(t, 0, l.head.Borrowed())
	assertPanics(t, ErrViewReleased, func() { first.Value() })

	// The iterator still holds the tail.
	assertPanics(t, cell.ErrBorrowConflict, func() { l.PushBack(3) })
	it.Close()
	l.PushBack(3)
	assert.DeepEqual(t, []uint32{1, 2, 3}, l.Values())
}

func TestIteratorStaleAfterClear(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)

	it := l.Iter()
	v, _ := it.Next()
	l.Clear()
	assertPanics(t, ErrStaleIterator, func() { it.Next() })
	_, ok := it.Next()
	assert.Check(t, !ok)
	assertPanics(t, ErrViewReleased, func() { v.Value() })
}

func TestIteratorStaleAfterUnlink(t *testing.T) {
	l := NewWithConfig(Config{PopMode: PopUnlink})
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)

	it := l.Iter()
	it.Next()
	l.PopBack()
	assertPanics(t, ErrStaleIterator, func() { it.Next() })
}

func TestIteratorSurvivesDetach(t *testing.T) {
	l := New()
	l.PushBack(1)
	l.PushBack(2)

	it := l.Iter()
	it.Next()
	l.PopBack()
	v, ok := it.Next()
	assert.Assert(t, ok)
	assert.Equal(t, uint32(2), v.Value())
	it.Close()
}

func TestAllBreakEarly(t *testing.T) {
	l := New()
	for i := uint32(10); i < 15; i++ {
		l.PushBack(i)
	}
	var seen []uint32
	for v := range l.All() {
		seen = append(seen, v)
		if v == 12 {
			break
		}
	}
	assert.DeepEqual(t, []uint32{10, 11, 12}, seen)
	for h := l.head; h != nil; {
		assert.Equal(t, 0, h.Borrowed())
		r := h.Borrow()
		h = r.Get().next
		r.Release()
	}
	l.PushBack(15)
	l.PushFront(9)
	assert.Equal(t, "[9 10 11 12 13 14 15]", l.String())
}

func TestValuesEmpty(t *testing.T) {
	assert.Check(t, is.Len(New().Values(), 0))
}
