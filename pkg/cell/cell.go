// Package cell implements a mutable memory location with dynamically checked
// borrow rules. Any number of shared borrows may be outstanding at once, or a
// single exclusive borrow, never both. Violations are detected when the borrow
// is requested, not when the value is used.
//
// A RefCell is not safe for concurrent use.
package cell

import (
	"fmt"

	"github.com/pkg/errors"

	"hop.computer/rclist/pkg"
)

// ErrBorrowConflict is matched by every BorrowError.
var ErrBorrowConflict = errors.New("borrow conflict")

// ErrReleased is the panic value when a guard is used after Release.
var ErrReleased = errors.New("borrow guard used after release")

const exclusive = -1

// Kind identifies the flavor of a borrow.
type Kind int

// Kinds of borrows.
const (
	Shared Kind = iota
	Exclusive
)

func (k Kind) String() string {
	if k == Exclusive {
		return "exclusive"
	}
	return "shared"
}

// BorrowError describes a rejected borrow request.
type BorrowError struct {
	Requested Kind
	Held      Kind
	// Readers is the number of shared borrows outstanding when Held is Shared.
	Readers int
}

func (e *BorrowError) Error() string {
	if e.Held == Shared {
		return fmt.Sprintf("%s: %s borrow requested while %d shared borrow(s) held",
			ErrBorrowConflict, e.Requested, e.Readers)
	}
	return fmt.Sprintf("%s: %s borrow requested while exclusively borrowed",
		ErrBorrowConflict, e.Requested)
}

// Is reports whether target is ErrBorrowConflict.
func (e *BorrowError) Is(target error) bool {
	return target == ErrBorrowConflict
}

// RefCell holds a value of type T together with its borrow state. The zero
// value holds the zero T and is not borrowed.
type RefCell[T any] struct {
	// >0: count of shared borrows, -1: exclusively borrowed.
	state int
	value T
}

// New returns a RefCell holding v.
func New[T any](v T) *RefCell[T] {
	return &RefCell[T]{value: v}
}

// Borrowed returns the raw borrow state: the number of shared borrows, -1 when
// exclusively borrowed, or 0 when free.
func (c *RefCell[T]) Borrowed() int {
	return c.state
}

// Borrow takes a shared borrow. It panics with a *BorrowError if the cell is
// exclusively borrowed.
func (c *RefCell[T]) Borrow() *Ref[T] {
	r, err := c.TryBorrow()
	pkg.PanicIf(err)
	return r
}

// TryBorrow is like Borrow, but returns the conflict instead of panicking.
func (c *RefCell[T]) TryBorrow() (*Ref[T], error) {
	if c.state == exclusive {
		return nil, errors.WithStack(&BorrowError{Requested: Shared, Held: Exclusive})
	}
	c.state++
	return &Ref[T]{cell: c}, nil
}

// BorrowMut takes an exclusive borrow. It panics with a *BorrowError if any
// borrow is outstanding.
func (c *RefCell[T]) BorrowMut() *RefMut[T] {
	r, err := c.TryBorrowMut()
	pkg.PanicIf(err)
	return r
}

// TryBorrowMut is like BorrowMut, but returns the conflict instead of
// panicking.
func (c *RefCell[T]) TryBorrowMut() (*RefMut[T], error) {
	switch {
	case c.state == exclusive:
		return nil, errors.WithStack(&BorrowError{Requested: Exclusive, Held: Exclusive})
	case c.state > 0:
		return nil, errors.WithStack(&BorrowError{Requested: Exclusive, Held: Shared, Readers: c.state})
	}
	c.state = exclusive
	return &RefMut[T]{cell: c}, nil
}

// Ref is a shared borrow of a RefCell. Guards are handed out by pointer and
// must not be copied by value. The zero Ref is released.
type Ref[T any] struct {
	cell *RefCell[T]
}

// Get returns a pointer to the borrowed value. The pointee must not be written
// through a Ref. Get panics if the Ref has been released.
func (r *Ref[T]) Get() *T {
	if r.cell == nil {
		panic(ErrReleased)
	}
	return &r.cell.value
}

// Clone takes another shared borrow of the same cell.
func (r *Ref[T]) Clone() *Ref[T] {
	if r.cell == nil {
		panic(ErrReleased)
	}
	r.cell.state++
	return &Ref[T]{cell: r.cell}
}

// Released reports whether Release has been called.
func (r *Ref[T]) Released() bool {
	return r.cell == nil
}

// Release ends the borrow. Releasing twice is a no-op. Release panics with
// ErrReleased if the cell holds no shared borrow, which happens when a copy of
// an already released Ref is released.
func (r *Ref[T]) Release() {
	if r.cell == nil {
		return
	}
	if r.cell.state <= 0 {
		r.cell = nil
		panic(ErrReleased)
	}
	r.cell.state--
	r.cell = nil
}

// RefMut is an exclusive borrow of a RefCell. Like Ref, it is handed out by
// pointer. The zero RefMut is released.
type RefMut[T any] struct {
	cell *RefCell[T]
}

// Get returns a pointer to the borrowed value. It panics if the RefMut has
// been released.
func (r *RefMut[T]) Get() *T {
	if r.cell == nil {
		panic(ErrReleased)
	}
	return &r.cell.value
}

// Release ends the borrow. Releasing twice is a no-op. Release panics with
// ErrReleased if the cell is not exclusively borrowed.
func (r *RefMut[T]) Release() {
	if r.cell == nil {
		return
	}
	if r.cell.state != exclusive {
		r.cell = nil
		panic(ErrReleased)
	}
	r.cell.state = 0
	r.cell = nil
}
