package list

import "hop.computer/rclist/pkg/cell"

// View is a read-only window onto the value stored in a node. While a View is
// held, the node is share-borrowed: reads through other views succeed, and any
// attempt to mutate the node panics. Call Release when done.
type View struct {
	ref *cell.Ref[node]
}

func newView(h handle) *View {
	return &View{ref: h.Borrow()}
}

// Value reads the node's value. It panics with ErrViewReleased if the View
// was released.
func (v *View) Value() uint32 {
	if v.ref.Released() {
		panic(ErrViewReleased)
	}
	return v.ref.Get().val
}

// Release ends the borrow. It is safe to call more than once.
func (v *View) Release() {
	v.ref.Release()
}
