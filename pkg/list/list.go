// Package list implements a doubly-linked list of uint32 values whose nodes
// are individually allocated and shared between the list and their neighbors.
// Every node's interior sits behind a run-time borrow check: values handed out
// by PeekFront, PeekBack and iterators are live views into node storage, and
// mutating a node while a view of it is outstanding panics with a borrow
// conflict instead of corrupting state.
package list

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"hop.computer/rclist/pkg/cell"
)

// ErrViewReleased is the panic value when a View is read after Release.
var ErrViewReleased = errors.New("list: view used after release")

// ErrStaleIterator is the panic value when an iterator is advanced after the
// list it walks was cleared or had a node unlinked.
var ErrStaleIterator = errors.New("list: iterator used after list changed shape")

type node struct {
	prev, next *cell.RefCell[node]
	val        uint32
}

// handle is a shared reference to a node. The list's head and tail slots and
// the links of a node's neighbors all hold handles; the node lives as long as
// any of them does.
type handle = *cell.RefCell[node]

// List is a doubly linked-list of uint32 values. Head, tail, and size are
// tracked internally, so all operations are constant time unless noted
// otherwise. The list is not thread-safe.
type List struct {
	head, tail handle
	size       int

	// gen changes whenever existing nodes leave the list, so iterators
	// can tell they were invalidated.
	gen uint64
	cfg Config
	log *logrus.Entry
}

// New returns an empty list with the default configuration.
func New() *List {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns an empty list configured by cfg.
func NewWithConfig(cfg Config) *List {
	log := cfg.Log
	if log == nil {
		log = logrus.WithField("list", "")
	}
	return &List{
		cfg: cfg,
		log: log,
	}
}

// Size returns the node counter. This function is constant time.
//
// With PopDetach the counter only ever grows: pops do not decrement it.
func (l *List) Size() int {
	return l.size
}

// PushBack appends val to the list. It panics with a borrow conflict if a view
// of the current tail is outstanding, in which case the list is unchanged.
func (l *List) PushBack(val uint32) {
	n := cell.New(node{prev: l.tail, val: val})
	if l.tail == nil {
		l.head = n
	} else {
		tail := l.mutate(l.tail, "push_back")
		tail.Get().next = n
		tail.Release()
	}
	l.tail = n
	l.size++
	l.log.WithField("value", val).Trace("push_back")
}

// PushFront prepends val to the list. It panics with a borrow conflict if a
// view of the current head is outstanding, in which case the list is
// unchanged.
func (l *List) PushFront(val uint32) {
	n := cell.New(node{next: l.head, val: val})
	if l.head == nil {
		l.tail = n
	} else {
		head := l.mutate(l.head, "push_front")
		head.Get().prev = n
		head.Release()
	}
	l.head = n
	l.size++
	l.log.WithField("value", val).Trace("push_front")
}

// PeekFront returns a view of the first value, or false if the list is empty.
// The view must be released before the head node can be mutated.
func (l *List) PeekFront() (*View, bool) {
	if l.head == nil {
		return nil, false
	}
	return newView(l.head), true
}

// PeekBack returns a view of the last value, or false if the list is empty.
// The view must be released before the tail node can be mutated.
func (l *List) PeekBack() (*View, bool) {
	if l.tail == nil {
		return nil, false
	}
	return newView(l.tail), true
}

// Front returns a copy of the first value, or false if the list is empty.
func (l *List) Front() (uint32, bool) {
	return copyOut(l.PeekFront())
}

// Back returns a copy of the last value, or false if the list is empty.
func (l *List) Back() (uint32, bool) {
	return copyOut(l.PeekBack())
}

func copyOut(v *View, ok bool) (uint32, bool) {
	if !ok {
		return 0, false
	}
	defer v.Release()
	return v.Value(), true
}

// PopBack detaches the last node. What else happens depends on the configured
// PopMode. Popping an empty list does nothing.
func (l *List) PopBack() {
	if l.tail == nil {
		return
	}
	if l.cfg.PopMode == PopUnlink {
		l.unlink(l.tail, "pop_back",
			func(n *node) *handle { return &n.prev },
			func(n *node) *handle { return &n.next })
		return
	}
	l.tail = neighbor(l.tail, func(n *node) handle { return n.prev })
	l.log.Trace("pop_back")
}

// PopFront detaches the first node. What else happens depends on the
// configured PopMode. Popping an empty list does nothing.
func (l *List) PopFront() {
	if l.head == nil {
		return
	}
	if l.cfg.PopMode == PopUnlink {
		l.unlink(l.head, "pop_front",
			func(n *node) *handle { return &n.next },
			func(n *node) *handle { return &n.prev })
		return
	}
	l.head = neighbor(l.head, func(n *node) handle { return n.next })
	l.log.Trace("pop_front")
}

// Clear drops the list's references to its nodes and resets the counter.
// Outstanding views stay readable; outstanding iterators become stale.
func (l *List) Clear() {
	l.head = nil
	l.tail = nil
	l.size = 0
	l.gen++
	l.log.Trace("clear")
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range l.Values() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteByte(']')
	return b.String()
}

// neighbor reads one link of h through a shared borrow.
func neighbor(h handle, link func(*node) handle) handle {
	r := h.Borrow()
	defer r.Release()
	return link(r.Get())
}

// unlink removes end (the head or tail) from the list. inward selects the link
// on end that points into the list, outward the link on its neighbor that
// points back at end. Both nodes are borrowed before either is written.
func (l *List) unlink(end handle, op string, inward, outward func(*node) *handle) {
	var next handle
	{
		r := end.Borrow()
		next = *inward(r.Get())
		r.Release()
	}

	if next != nil {
		endMut := l.mutate(end, op)
		nextMut, err := next.TryBorrowMut()
		if err != nil {
			endMut.Release()
			l.conflict(op, err)
		}
		*inward(endMut.Get()) = nil
		*outward(nextMut.Get()) = nil
		endMut.Release()
		nextMut.Release()
	}
	if end == l.tail {
		l.tail = next
	}
	if end == l.head {
		l.head = next
	}
	l.size--
	l.gen++
	l.log.Trace(op)
}

// mutate takes an exclusive borrow of h on behalf of op, logging and panicking
// on conflict.
func (l *List) mutate(h handle, op string) *cell.RefMut[node] {
	m, err := h.TryBorrowMut()
	if err != nil {
		l.conflict(op, err)
	}
	return m
}

func (l *List) conflict(op string, err error) {
	l.log.WithField("op", op).WithError(err).Error("aborting on borrow conflict")
	panic(err)
}
